// A NEW file to hold a shared test server setup utility, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"testing"

	"github.com/tejasnaik/watcharr/internal/api"
	"github.com/tejasnaik/watcharr/internal/config"
	"github.com/tejasnaik/watcharr/internal/core"
	base "github.com/tejasnaik/watcharr/internal/testutil"
)

// SetupTestApp initializes a core.App backed by an in-memory database.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	db := base.SetupTestDB(t)

	cfg := &config.Config{}
	return &core.App{
		Config:  cfg,
		DB:      db,
		Version: "test",
	}
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB) {
	t.Helper()
	app := SetupTestApp(t)
	server := api.NewServer(app)
	return server, app.DB
}
