package refresh

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs reloads on a standard 5-field cron expression.
type Scheduler struct {
	c *cron.Cron
}

func NewScheduler(spec string, reload ReloadFunc) (*Scheduler, error) {
	c := cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(spec, func() {
		log.Info().Str("cron", spec).Msg("scheduled reload")
		reload(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("refresh cron %q: %w", spec, err)
	}
	return &Scheduler{c: c}, nil
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop waits for a running reload to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
	}
}
