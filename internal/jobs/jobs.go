package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/tejasnaik/watcharr/internal/chat"
	"github.com/tejasnaik/watcharr/internal/config"
)

// StartJobs starts the background job scheduler.
func StartJobs(cfg *config.Config, registry *chat.Registry) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startSessionSweepJob(s, cfg, registry)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
}

// startSessionSweepJob schedules the eviction of idle chat sessions.
// Abandoned tabs never send an explicit delete, so without the sweep their
// sessions would sit in memory until the process exits.
func startSessionSweepJob(s *gocron.Scheduler, cfg *config.Config, registry *chat.Registry) {
	interval := cfg.Chat.SweepMinutes
	if interval == 0 {
		log.Println("Chat session sweep interval is 0, idle eviction is disabled.")
		return
	}

	ttl := time.Duration(cfg.Chat.SessionTTLMinutes) * time.Minute
	log.Printf("Scheduling job: 'chat-session-sweep' to run every %d minutes (idle TTL %s).", interval, ttl)

	_, err := s.Every(interval).Minutes().Do(func() {
		if evicted := registry.EvictIdle(ttl); evicted > 0 {
			log.Printf("Evicted %d idle chat session(s).", evicted)
		}
	})
	if err != nil {
		log.Printf("Error scheduling 'chat-session-sweep' job: %v", err)
	}
}
