// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartStatusScheduler runs the contest status sweep every minute. The sweep
// body is a single short transaction and safe to run concurrently with
// submissions, voting and finalize.
func (s *ContestService) StartStatusScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			updated, err := s.RefreshContestStatuses()
			if err != nil {
				log.Printf("[Scheduler] status refresh failed: %v", err)
				return
			}
			if updated > 0 {
				log.Printf("✅ [Scheduler] %d contest(s) transitioned", updated)
			}
		}),
	)
}
