package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mirukan/novelkeep/internal/config"
	"github.com/mirukan/novelkeep/internal/orchestrator"
)

// Start runs the background scheduler that triggers the periodic
// update+sync pass. It returns the scheduler so the caller can stop it on
// shutdown.
func Start(cfg *config.Config, orch *orchestrator.Orchestrator) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	interval := cfg.UpdateIntervalHours
	if interval == 0 {
		log.Println("Update interval is 0, scheduled checks are disabled.")
		s.StartAsync()
		return s
	}

	log.Printf("Scheduling update check to run every %d hours.", interval)
	_, err := s.Every(interval).Hours().Do(func() {
		log.Println("Running scheduled update check...")
		orch.RunAll(true)
	})
	if err != nil {
		log.Printf("Error scheduling update check: %v", err)
	}

	// Run an initial pass shortly after startup.
	time.AfterFunc(1*time.Minute, func() {
		orch.RunAll(true)
	})

	s.StartAsync()
	return s
}
