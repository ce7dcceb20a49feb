package worker

import (
	"context"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"

	"github.com/ukprop/clearance/internal/service"
)

// ExpirySweeper periodically expires quotes whose validity window has lapsed.
type ExpirySweeper struct {
	quotes   *service.QuoteService
	schedule string
	log      zerolog.Logger
	cron     *cron.Cron
}

func NewExpirySweeper(quotes *service.QuoteService, schedule string, log zerolog.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		quotes:   quotes,
		schedule: schedule,
		log:      log.With().Str("component", "expiry-sweeper").Logger(),
		cron:     cron.New(),
	}
}

// Start registers the sweep on the cron schedule and runs one sweep
// immediately so a restart does not leave stale quotes waiting a full tick.
func (s *ExpirySweeper) Start() error {
	if err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("quote expiry sweeper started")

	go s.sweep()
	return nil
}

func (s *ExpirySweeper) Stop() {
	s.cron.Stop()
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := s.quotes.SweepExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("quote expiry sweep failed")
		return
	}
	if expired > 0 {
		s.log.Info().Int64("expired", expired).Msg("expired lapsed quotes")
	}
}
