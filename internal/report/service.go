package report

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"

	"github.com/Vinay-014/email-spam-report/internal/metrics"
	"github.com/Vinay-014/email-spam-report/internal/models"
	"github.com/Vinay-014/email-spam-report/internal/notifications"
	"github.com/Vinay-014/email-spam-report/internal/repository"
)

const emailTemplate = "report_email.html"

// Service assembles and delivers the deliverability report email for a
// completed test.
type Service struct {
	tests       repository.TestRepository
	profiles    repository.ProfileRepository
	results     repository.ResultRepository
	provider    notifications.EmailProvider
	baseURL     string
	templateDir string
	now         func() time.Time
	logger      *log.Logger

	tmplOnce sync.Once
	tmpl     *pongo2.Template
	tmplErr  error
}

type Option func(*Service)

// WithBaseURL sets the site the report link points at.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) { s.baseURL = baseURL }
}

// WithTemplateDir sets where the email template is loaded from.
func WithTemplateDir(dir string) Option {
	return func(s *Service) { s.templateDir = dir }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(tests repository.TestRepository, profiles repository.ProfileRepository, results repository.ResultRepository, provider notifications.EmailProvider, opts ...Option) *Service {
	s := &Service{
		tests:       tests,
		profiles:    profiles,
		results:     results,
		provider:    provider,
		baseURL:     "http://localhost:8080",
		templateDir: "templates",
		now:         time.Now,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send emails the report for one test to its owner and returns the message
// id assigned to the delivery.
func (s *Service) Send(ctx context.Context, testID string) (string, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		metrics.ReportEmails.WithLabelValues("failed").Inc()
		return "", err
	}

	profile, err := s.profiles.GetByID(ctx, test.UserID)
	if err != nil {
		metrics.ReportEmails.WithLabelValues("failed").Inc()
		return "", err
	}

	results, err := s.results.ListByTest(ctx, testID)
	if err != nil {
		metrics.ReportEmails.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("failed to load results for report: %w", err)
	}

	score := 0
	if test.DeliverabilityScore != nil {
		score = *test.DeliverabilityScore
	}

	html, err := s.render(test, score, models.CountResults(results))
	if err != nil {
		metrics.ReportEmails.WithLabelValues("failed").Inc()
		return "", err
	}

	msg := notifications.EmailMessage{
		To:      []string{profile.Email},
		Subject: fmt.Sprintf("Your Email Deliverability Report - %d%% Score", score),
		Body:    html,
		HTML:    true,
	}
	if err := s.provider.Send(ctx, msg); err != nil {
		metrics.ReportEmails.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("failed to send report email: %w", err)
	}

	emailID := uuid.NewString()
	metrics.ReportEmails.WithLabelValues("sent").Inc()
	s.logger.Printf("report: sent report for test %s to %s (email %s)", test.TestCode, profile.Email, emailID)
	return emailID, nil
}

func (s *Service) render(test *models.Test, score int, counts models.ResultCounts) (string, error) {
	s.tmplOnce.Do(func() {
		s.tmpl, s.tmplErr = pongo2.FromFile(filepath.Join(s.templateDir, emailTemplate))
	})
	if s.tmplErr != nil {
		return "", fmt.Errorf("failed to load report template: %w", s.tmplErr)
	}

	return s.tmpl.Execute(pongo2.Context{
		"score":      score,
		"test_code":  test.TestCode,
		"counts":     counts,
		"report_url": fmt.Sprintf("%s/report/%s", s.baseURL, test.ID),
		"year":       s.now().Year(),
	})
}
