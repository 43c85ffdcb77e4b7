package reaper

import (
	"context"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	appaudits "github.com/uptrade-media/audit-engine/internal/application/audits"
)

// Reaper periodically fails audits whose runs died without a terminal
// transition. A crashed process leaves a job in running forever otherwise.
type Reaper struct {
	Service   *appaudits.Service
	StaleAfter time.Duration
	Every      time.Duration

	cron *cron.Cron
}

func New(svc *appaudits.Service, staleAfter, every time.Duration) *Reaper {
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	if every <= 0 {
		every = time.Minute
	}
	return &Reaper{Service: svc, StaleAfter: staleAfter, Every: every}
}

// Start schedules the sweep. Safe to call once.
func (r *Reaper) Start() error {
	r.cron = cron.New()
	_, err := r.cron.AddFunc("@every "+r.Every.String(), r.sweep)
	if err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop waits for an in-flight sweep to finish.
func (r *Reaper) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

func (r *Reaper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := r.Service.FailStale(ctx, r.StaleAfter)
	if err != nil {
		log.Error().Err(err).Msg("stale audit sweep failed")
		return
	}
	if n > 0 {
		log.Warn().Int64("reaped", n).Msg("failed stale audits")
	}
}
