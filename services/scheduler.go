// services/scheduler.go
package services

import (
	"log"

	"github.com/go-co-op/gocron/v2"
)

// StartSnapshotScheduler captures all profiles' stats once a day shortly
// after midnight, bounding snapshot write volume regardless of event rate.
func (s *PowerLevelService) StartSnapshotScheduler() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[Scheduler] init failed: %v", err)
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 10, 0))),
		gocron.NewTask(func() {
			s.SnapshotAll()
		}),
	)
	if err != nil {
		log.Printf("[Scheduler] failed to register snapshot job: %v", err)
	}
}
