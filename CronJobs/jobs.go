package CronJobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"Helios/Attendance"
)

// EligibilityTicker re-evaluates the attendance window every 60 seconds so
// open/close transitions happen on the clock, not only on the next request.
// It is stopped deterministically on shutdown; no timer survives teardown.
type EligibilityTicker struct {
	cronScheduler  *cron.Cron
	engine         *Attendance.Engine
	runImmediately bool
	jobID          cron.EntryID
}

// NewEligibilityTicker creates the ticker for the given engine.
func NewEligibilityTicker(engine *Attendance.Engine, runImmediately bool) *EligibilityTicker {
	return &EligibilityTicker{
		cronScheduler:  cron.New(cron.WithSeconds()),
		engine:         engine,
		runImmediately: runImmediately,
	}
}

// Start schedules the recurring evaluation.
func (t *EligibilityTicker) Start() error {
	var err error
	t.jobID, err = t.cronScheduler.AddFunc("0 * * * * *", t.engine.Tick)
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	t.cronScheduler.Start()
	log.Println("Attendance eligibility ticker started")

	if t.runImmediately {
		t.engine.Tick()
	}
	return nil
}

// Stop cancels the ticker and waits for a running evaluation to finish.
func (t *EligibilityTicker) Stop() {
	if t.cronScheduler != nil {
		<-t.cronScheduler.Stop().Done()
		log.Println("Attendance eligibility ticker stopped")
	}
}
