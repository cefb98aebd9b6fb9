// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var (
	// ErrUnknownJob is returned when triggering a name nobody registered
	ErrUnknownJob = errors.New("unknown job")
	// ErrJobRunning is returned when a job is triggered while it runs
	ErrJobRunning = errors.New("job already running")
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// JobStatus describes a registered job. Schedule is empty for jobs that
// only run when triggered.
type JobStatus struct {
	Name       string     `json:"name"`
	Schedule   string     `json:"schedule,omitempty"`
	NextRun    *time.Time `json:"next_run,omitempty"`
	LastRun    *time.Time `json:"last_run,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	DurationMs int64      `json:"last_duration_ms"`
	Running    bool       `json:"running"`
}

type entry struct {
	job      Job
	schedule string
	cronID   cron.EntryID

	mu       sync.Mutex
	running  bool
	lastRun  time.Time
	lastErr  error
	duration time.Duration
}

// Scheduler keeps every background job by name and runs the scheduled
// ones on cron. A job never runs twice at the same time.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu   sync.RWMutex
	jobs map[string]*entry
}

// New creates a new scheduler. Schedules use six fields (with seconds).
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
		jobs: make(map[string]*entry),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("scheduled", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// Register adds a job under its name. An empty schedule keeps it out of
// cron; it can still be triggered. Schedule examples:
//   - "0 */15 * * * *"     - Every 15 minutes
//   - "0 30 3 * * *"       - 03:30 every day
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) Register(job Job, schedule string) error {
	name := job.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %s already registered", name)
	}

	e := &entry{job: job, schedule: schedule}
	if schedule != "" {
		id, err := s.cron.AddFunc(schedule, func() {
			if err := s.run(e); errors.Is(err, ErrJobRunning) {
				s.log.Warn().Str("job", name).Msg("Previous run still in progress, skipping")
			}
		})
		if err != nil {
			return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
		}
		e.cronID = id
	}
	s.jobs[name] = e

	s.log.Info().
		Str("schedule", schedule).
		Str("job", name).
		Msg("Job registered")

	return nil
}

// Trigger runs a registered job now and waits for it
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	s.log.Info().Str("job", name).Msg("Running job immediately")
	return s.run(e)
}

// Jobs returns the status of every registered job, sorted by name
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for name, e := range s.jobs {
		st := JobStatus{Name: name, Schedule: e.schedule}
		if e.cronID != 0 {
			if next := s.cron.Entry(e.cronID).Next; !next.IsZero() {
				st.NextRun = &next
			}
		}

		e.mu.Lock()
		st.Running = e.running
		if !e.lastRun.IsZero() {
			last := e.lastRun
			st.LastRun = &last
			st.DurationMs = e.duration.Milliseconds()
		}
		if e.lastErr != nil {
			st.LastError = e.lastErr.Error()
		}
		e.mu.Unlock()

		out = append(out, st)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) run(e *entry) error {
	name := e.job.Name()

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrJobRunning
	}
	e.running = true
	e.mu.Unlock()

	s.log.Debug().Str("job", name).Msg("Running job")
	start := time.Now()
	err := e.job.Run()
	elapsed := time.Since(start)

	e.mu.Lock()
	e.running = false
	e.lastRun = start
	e.lastErr = err
	e.duration = elapsed
	e.mu.Unlock()

	if err != nil {
		s.log.Error().
			Err(err).
			Str("job", name).
			Dur("duration", elapsed).
			Msg("Job failed")
		return err
	}
	s.log.Debug().Str("job", name).Dur("duration", elapsed).Msg("Job completed")
	return nil
}
