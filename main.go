package main

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/tejasnaik/watcharr/internal/api"
	"github.com/tejasnaik/watcharr/internal/core"
	"github.com/tejasnaik/watcharr/internal/jobs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New(migrationsFS)
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	// Setup the API server
	server := api.NewServer(app)

	// Background sweep for abandoned chat sessions
	jobs.StartJobs(app.Config, server.Registry())

	addr := fmt.Sprintf(":%d", app.Config.Port)
	log.Printf("Starting web server on %s", addr)

	// Start the HTTP server
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
