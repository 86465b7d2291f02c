package checker

import (
	"log"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/repository"
)

type options struct {
	window        time.Duration
	detectionRate float64
	senderAddress string
	source        ResultSource
	notifier      ReportNotifier
	clock         func() time.Time
	logger        *log.Logger
}

type Option func(*options)

// WithWindow sets how long a test keeps checking before finalization.
func WithWindow(window time.Duration) Option {
	return func(o *options) { o.window = window }
}

// WithDetectionRate sets the peak detection probability of the simulated
// source. Ignored when WithSource supplies a custom source.
func WithDetectionRate(rate float64) Option {
	return func(o *options) { o.detectionRate = rate }
}

// WithSenderAddress sets the captured sender on synthesized rows.
func WithSenderAddress(addr string) Option {
	return func(o *options) { o.senderAddress = addr }
}

// WithSource replaces the simulated result source.
func WithSource(source ResultSource) Option {
	return func(o *options) { o.source = source }
}

// WithNotifier attaches a completion notifier.
func WithNotifier(notifier ReportNotifier) Option {
	return func(o *options) { o.notifier = notifier }
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New wires the full check pipeline around the shared repositories.
func New(tests repository.TestRepository, inboxes repository.InboxRepository, results repository.ResultRepository, opts ...Option) *Runner {
	o := options{
		window:        5 * time.Minute,
		detectionRate: 0.7,
		senderAddress: "test@example.com",
		clock:         time.Now,
		logger:        log.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.source == nil {
		o.source = NewSimulatedSource(o.window, o.detectionRate)
	}

	synthesizer := NewSynthesizer(results, o.source, o.senderAddress, o.clock, o.logger)
	finalizer := NewFinalizer(tests, results, o.notifier, o.clock, o.logger)
	progressor := NewProgressor(synthesizer, finalizer, o.window, o.clock, o.logger)

	return &Runner{
		tests:      tests,
		inboxes:    inboxes,
		progressor: progressor,
		logger:     o.logger,
	}
}
