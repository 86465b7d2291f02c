package report

import (
	"context"
	"log"
	"time"
)

// Notifier adapts the report service to the checker's completion events.
// Dispatch is fire-and-forget: a failed or slow report email never blocks
// or reverts a finalized test.
type Notifier struct {
	service *Service
	timeout time.Duration
	logger  *log.Logger
	async   bool
}

type NotifierOption func(*Notifier)

// WithSynchronousDispatch delivers in the caller's goroutine. Used in tests.
func WithSynchronousDispatch() NotifierOption {
	return func(n *Notifier) { n.async = false }
}

// WithDispatchTimeout bounds one report delivery.
func WithDispatchTimeout(timeout time.Duration) NotifierOption {
	return func(n *Notifier) { n.timeout = timeout }
}

// WithNotifierLogger overrides the logger.
func WithNotifierLogger(logger *log.Logger) NotifierOption {
	return func(n *Notifier) { n.logger = logger }
}

func NewNotifier(service *Service, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		service: service,
		timeout: 30 * time.Second,
		logger:  log.Default(),
		async:   true,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// TestCompleted delivers the report for a finalized test.
func (n *Notifier) TestCompleted(testID string) {
	if n.async {
		go n.deliver(testID)
		return
	}
	n.deliver(testID)
}

func (n *Notifier) deliver(testID string) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if _, err := n.service.Send(ctx, testID); err != nil {
		n.logger.Printf("report: failed to send report for test %s: %v", testID, err)
	}
}
