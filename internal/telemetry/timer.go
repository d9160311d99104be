package telemetry

import "time"

// Stage times one phase of the pipeline (loading weights, running a
// batch) and logs its duration at Info level, the Go equivalent of the
// reference engine's std::chrono stage timings printed under verbose
// mode.
type Stage struct {
	log   Logger
	name  string
	start time.Time
}

// StartStage begins timing name.
func StartStage(log Logger, name string) *Stage {
	return &Stage{log: log, name: name, start: time.Now()}
}

// Done logs the elapsed time since StartStage and returns it.
func (s *Stage) Done() time.Duration {
	elapsed := time.Since(s.start)
	s.log.Infof("%s finished in %s", s.name, elapsed)
	return elapsed
}
