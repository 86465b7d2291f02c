package checker

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Vinay-014/email-spam-report/internal/models"
)

func TestSimulatedSourceNeverDetectsAtStart(t *testing.T) {
	source := NewSimulatedSource(5*time.Minute, 0.7)
	source.randFloat = rand.New(rand.NewSource(42)).Float64

	for i := 0; i < 1000; i++ {
		if _, ok := source.Draw(0); ok {
			t.Fatalf("draw %d detected a result at elapsed 0", i)
		}
	}
}

func TestSimulatedSourceDetectionCapsAtRate(t *testing.T) {
	source := NewSimulatedSource(5*time.Minute, 0.7)
	rng := rand.New(rand.NewSource(7))
	source.randFloat = rng.Float64

	const draws = 100000
	detected := 0
	for i := 0; i < draws; i++ {
		if _, ok := source.Draw(5); ok {
			detected++
		}
	}

	rate := float64(detected) / draws
	if rate < 0.68 || rate > 0.72 {
		t.Fatalf("detection rate at window end = %.4f, want ~0.70", rate)
	}
}

func TestSimulatedSourceClassificationDistribution(t *testing.T) {
	// Detection rate 1 at the window boundary makes every draw produce a
	// classification, isolating the placement distribution.
	source := NewSimulatedSource(5*time.Minute, 1.0)
	rng := rand.New(rand.NewSource(99))
	source.randFloat = rng.Float64

	const draws = 10000
	counts := map[models.ResultType]int{}
	for i := 0; i < draws; i++ {
		resultType, ok := source.Draw(5)
		if !ok {
			t.Fatalf("draw %d unexpectedly produced no result", i)
		}
		counts[resultType]++
	}

	expected := map[models.ResultType]float64{
		models.ResultTypeInbox:       0.60,
		models.ResultTypePromotions:  0.15,
		models.ResultTypeSpam:        0.10,
		models.ResultTypeNotReceived: 0.15,
	}
	for resultType, want := range expected {
		got := float64(counts[resultType]) / draws
		if got < want-0.02 || got > want+0.02 {
			t.Errorf("%s frequency = %.4f, want %.2f ±0.02", resultType, got, want)
		}
	}
}

func TestSimulatedSourceDefaults(t *testing.T) {
	source := NewSimulatedSource(0, -1)
	if source.windowMinutes != 5 {
		t.Fatalf("expected 5 minute default window, got %v", source.windowMinutes)
	}
	if source.detectionRate != 0.7 {
		t.Fatalf("expected 0.7 default detection rate, got %v", source.detectionRate)
	}
}
