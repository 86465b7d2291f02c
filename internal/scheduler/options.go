package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Options struct {
	Location *time.Location
	Logger   *log.Logger
	Cron     *cron.Cron
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Location: time.UTC,
		Logger:   log.Default(),
	}
}

// WithLocation sets the timezone schedules are evaluated in.
func WithLocation(location *time.Location) Option {
	return func(o *Options) { o.Location = location }
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithCron injects a preconfigured cron engine.
func WithCron(c *cron.Cron) Option {
	return func(o *Options) { o.Cron = c }
}
