package checker

import (
	"math/rand"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/models"
)

// ResultSource decides whether an inbox has produced a placement for a
// running test. It exists so the simulation below can be swapped for a real
// provider integration (IMAP or API polling) without touching the rest of
// the pipeline.
type ResultSource interface {
	// Draw returns the placement for one inbox check, or ok=false when no
	// result has appeared yet.
	Draw(elapsedMinutes float64) (models.ResultType, bool)
}

// Classification cutoffs on a uniform draw, half-open intervals.
const (
	inboxCutoff      = 0.60
	promotionsCutoff = 0.75
	spamCutoff       = 0.85
)

// SimulatedSource synthesizes placements with a detection chance that grows
// linearly over the checking window, topping out at the detection rate. The
// remainder is deliberately left for the finalizer's back-fill.
type SimulatedSource struct {
	windowMinutes float64
	detectionRate float64
	randFloat     func() float64
}

func NewSimulatedSource(window time.Duration, detectionRate float64) *SimulatedSource {
	if window <= 0 {
		window = 5 * time.Minute
	}
	if detectionRate <= 0 || detectionRate > 1 {
		detectionRate = 0.7
	}
	return &SimulatedSource{
		windowMinutes: window.Minutes(),
		detectionRate: detectionRate,
		randFloat:     rand.Float64,
	}
}

func (s *SimulatedSource) Draw(elapsedMinutes float64) (models.ResultType, bool) {
	if s.randFloat() >= (elapsedMinutes/s.windowMinutes)*s.detectionRate {
		return "", false
	}

	switch r := s.randFloat(); {
	case r < inboxCutoff:
		return models.ResultTypeInbox, true
	case r < promotionsCutoff:
		return models.ResultTypePromotions, true
	case r < spamCutoff:
		return models.ResultTypeSpam, true
	default:
		return models.ResultTypeNotReceived, true
	}
}
