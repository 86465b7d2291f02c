package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Handler executes a scheduled job.
type Handler func(context.Context) error

// Job pairs a cron schedule with its handler.
type Job struct {
	Name         string
	Schedule     string
	Timeout      time.Duration
	RunOnStartup bool
	Handler      Handler
}

// Service coordinates scheduled job execution around a single cron engine.
type Service struct {
	cron      *cron.Cron
	parser    cron.Parser
	logger    *log.Logger
	location  *time.Location
	mu        sync.Mutex
	jobs      []Job
	rootCtx   context.Context
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewService(opts ...Option) *Service {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cronEngine := options.Cron
	if cronEngine == nil {
		cronEngine = cron.New(cron.WithLocation(options.Location))
	}

	return &Service{
		cron:     cronEngine,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		logger:   options.Logger,
		location: options.Location,
	}
}

// AddJob schedules a job. Must be called before Run.
func (s *Service) AddJob(job Job) error {
	if job.Name == "" || job.Handler == nil {
		return fmt.Errorf("job needs a name and a handler")
	}
	schedule, err := s.parser.Parse(job.Schedule)
	if err != nil {
		return fmt.Errorf("failed to parse schedule %q for job %s: %w", job.Schedule, job.Name, err)
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()

	s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.executeJob(job)
	}))
	return nil
}

// Run starts the scheduler loop until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.startOnce.Do(func() {
		s.rootCtx = ctx
		s.cron.Start()
		s.runStartupJobs()
	})

	<-ctx.Done()
	s.stop()
	return nil
}

func (s *Service) runStartupJobs() {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		if job.RunOnStartup {
			go s.executeJob(job)
		}
	}
}

func (s *Service) stop() {
	s.stopOnce.Do(func() {
		ctx := s.cron.Stop()
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			s.logger.Printf("scheduler: timed out waiting for jobs to finish")
		}
	})
}

func (s *Service) executeJob(job Job) {
	ctx := s.rootCtx
	if ctx == nil {
		ctx = context.Background()
	}

	var cancel context.CancelFunc
	if job.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
	}

	start := s.now()
	var runErr error
	func() {
		defer func() {
			if cancel != nil {
				cancel()
			}
			if r := recover(); r != nil {
				runErr = fmt.Errorf("panic: %v", r)
			}
		}()
		runErr = job.Handler(ctx)
	}()

	duration := s.now().Sub(start)
	if runErr != nil {
		s.logger.Printf("scheduler: job %s failed after %s: %v", job.Name, duration, runErr)
		return
	}
	s.logger.Printf("scheduler: job %s finished in %s", job.Name, duration)
}

func (s *Service) now() time.Time {
	if s.location == nil {
		return time.Now()
	}
	return time.Now().In(s.location)
}
