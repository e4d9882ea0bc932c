package background

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"gymcore/internal/repositories"
)

// JobScheduler runs periodic maintenance: expired reset tokens are swept
// hourly so stale tokens never linger in the credential store. Sessions
// expire on their own via the store TTL and need no sweep.
type JobScheduler struct {
	scheduler gocron.Scheduler
	userRepo  repositories.UserRepository
}

func NewJobScheduler(userRepo repositories.UserRepository) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		userRepo:  userRepo,
	}
	js.registerJobs()
	return js
}

func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(js.sweepExpiredResetTokens, context.Background()),
		gocron.WithName("reset-token-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reset-token sweep job: %v", err)
	}
}

func (js *JobScheduler) sweepExpiredResetTokens(ctx context.Context) {
	cleared, err := js.userRepo.ClearExpiredResetTokens(ctx)
	if err != nil {
		log.Printf("Reset-token sweep failed: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("Reset-token sweep cleared %d expired tokens", cleared)
	}
}
