package chrono

import (
	"fmt"
	"lmssynergy/lib/timezone"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs callbacks on cron specs evaluated in portal time.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() Scheduler {
	return Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{}),
			cron.WithLocation(timezone.Location),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
		),
	}
}

func (s Scheduler) Add(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

func (s Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

type cronLogger struct{}

func (l cronLogger) formatParams(keysAndValues []any) []any {
	params := []any{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		params = append(params, fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	return params
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(fmt.Sprintf("cron: %s", msg), l.formatParams(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	params := append([]any{"err", err}, l.formatParams(keysAndValues)...)
	slog.Error(fmt.Sprintf("cron: %s", msg), params...)
}
