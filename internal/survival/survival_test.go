package survival

import (
	"math"
	"testing"

	"github.com/sardrift/driftsim/internal/models"
)

func TestEstimateSurvivalTableScenario(t *testing.T) {
	age := 40
	victim := models.VictimProfile{
		Age:      &age,
		HasPFD:   false,
		Clothing: models.ClothingLight,
	}
	got := Estimate(victim, 55, 4)

	if math.Abs(got.P-0.486) > 0.001 {
		t.Errorf("p = %v, want ≈ 0.486", got.P)
	}
	if got.Urgency != UrgencyUrgent {
		t.Errorf("urgency = %v, want %v", got.Urgency, UrgencyUrgent)
	}
	if math.Abs(got.TimeRemaining-2.92) > 0.01 {
		t.Errorf("timeRemaining = %v, want ≈ 2.92", got.TimeRemaining)
	}
}

func TestEstimateProbabilityClamped(t *testing.T) {
	age := 25
	victim := models.VictimProfile{
		Age:      &age,
		HasPFD:   true,
		Clothing: models.ClothingDrysuit,
	}
	got := Estimate(victim, 85, 0.5)
	if got.P < 0 || got.P > 1 {
		t.Errorf("p out of [0,1]: %v", got.P)
	}

	age2 := 70
	worst := models.VictimProfile{Age: &age2, HasPFD: false, Clothing: models.ClothingNone}
	got2 := Estimate(worst, 30, 48)
	if got2.P < 0 || got2.P > 1 {
		t.Errorf("p out of [0,1]: %v", got2.P)
	}
}

func TestEstimateMissingAgeDefaultsTo40(t *testing.T) {
	withNil := models.VictimProfile{Age: nil, HasPFD: false, Clothing: models.ClothingLight}
	age := 40
	withExplicit := models.VictimProfile{Age: &age, HasPFD: false, Clothing: models.ClothingLight}

	a := Estimate(withNil, 55, 4)
	b := Estimate(withExplicit, 55, 4)
	if a.P != b.P {
		t.Errorf("missing age should default to 40: got %v vs %v", a.P, b.P)
	}
}

func TestUrgencyMonotoneInP(t *testing.T) {
	cases := []struct {
		p    float64
		want Urgency
	}{
		{0.1, UrgencyCritical},
		{0.29, UrgencyCritical},
		{0.3, UrgencyUrgent},
		{0.49, UrgencyUrgent},
		{0.5, UrgencyHigh},
		{0.74, UrgencyHigh},
		{0.75, UrgencyModerate},
		{1.0, UrgencyModerate},
	}
	for _, c := range cases {
		if got := urgencyFor(c.p); got != c.want {
			t.Errorf("urgencyFor(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestHypothermiaStageProgression(t *testing.T) {
	if got := hypothermiaStage(40, 0.01); got != StageColdShock {
		t.Errorf("expected cold-shock immediately, got %v", got)
	}
	if got := hypothermiaStage(40, 0.2); got != StageSwimFailure {
		t.Errorf("expected swim-failure in cold water shortly after immersion, got %v", got)
	}
	if got := hypothermiaStage(75, 0.5); got != StageSwimFailure {
		t.Errorf("expected swim-failure in warm water within the first hour, got %v", got)
	}
	if got := hypothermiaStage(55, 40); got != StageSevereHypothermia {
		t.Errorf("expected severe-hypothermia after a long time in cold water, got %v", got)
	}
}
