// Package survival implements the piecewise factor-model survival
// estimator of spec.md §4.7: a pure function of victim profile,
// environmental conditions, and elapsed hours.
package survival

import (
	"github.com/sardrift/driftsim/internal/models"
)

// Urgency is the monotone step function of survival probability spec.md
// §4.7/§8 specifies.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyHigh     Urgency = "high"
	UrgencyModerate Urgency = "moderate"
)

// HypothermiaStage is the cold-water-immersion stage spec.md §4.7
// specifies.
type HypothermiaStage string

const (
	StageColdShock          HypothermiaStage = "cold-shock"
	StageSwimFailure        HypothermiaStage = "swim-failure"
	StageMildHypothermia    HypothermiaStage = "mild-hypothermia"
	StageSevereHypothermia  HypothermiaStage = "severe-hypothermia"
)

// Assessment is the full output of Estimate.
type Assessment struct {
	P              float64
	TimeRemaining  float64
	Urgency        Urgency
	Hypothermia    HypothermiaStage
}

func baseRate(age *int) float64 {
	a := 40
	if age != nil {
		a = *age
	}
	switch {
	case a < 18:
		return 0.85
	case a < 30:
		return 0.90
	case a < 50:
		return 0.88
	case a < 65:
		return 0.80
	default:
		return 0.70
	}
}

func tempFactor(waterTempF float64) float64 {
	switch {
	case waterTempF > 80:
		return 1.0
	case waterTempF > 70:
		return 0.95
	case waterTempF > 60:
		return 0.85
	case waterTempF > 50:
		return 0.65
	case waterTempF > 40:
		return 0.40
	default:
		return 0.20
	}
}

func timeFactor(hours float64) float64 {
	switch {
	case hours < 1:
		return 1.0
	case hours < 3:
		return 0.95
	case hours < 6:
		return 0.85
	case hours < 12:
		return 0.70
	case hours < 24:
		return 0.50
	default:
		return 0.30
	}
}

func clothingBonus(c models.ClothingCategory) float64 {
	switch c {
	case models.ClothingNone:
		return -0.1
	case models.ClothingLight:
		return 0
	case models.ClothingNormal:
		return 0.05
	case models.ClothingHeavy:
		return 0.10
	case models.ClothingWetsuit:
		return 0.20
	case models.ClothingDrysuit:
		return 0.30
	default:
		return 0
	}
}

// baseTime returns the hours-remaining baseline by water temperature
// band, same thresholds as tempFactor (spec.md §4.7).
func baseTime(waterTempF float64) float64 {
	switch {
	case waterTempF > 80:
		return 48
	case waterTempF > 70:
		return 24
	case waterTempF > 60:
		return 12
	case waterTempF > 50:
		return 6
	case waterTempF > 40:
		return 3
	default:
		return 1.5
	}
}

func urgencyFor(p float64) Urgency {
	switch {
	case p < 0.3:
		return UrgencyCritical
	case p < 0.5:
		return UrgencyUrgent
	case p < 0.75:
		return UrgencyHigh
	default:
		return UrgencyModerate
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Estimate computes the full survival assessment for victim at
// waterTempF after elapsedHours adrift (spec.md §4.7).
func Estimate(victim models.VictimProfile, waterTempF, elapsedHours float64) Assessment {
	p := baseRate(victim.Age) * tempFactor(waterTempF) * timeFactor(elapsedHours)
	if victim.HasPFD {
		p += 0.2
	}
	p += clothingBonus(victim.Clothing)
	p = clamp01(p)

	bt := baseTime(waterTempF)
	timeRemaining := bt * p

	return Assessment{
		P:             p,
		TimeRemaining: timeRemaining,
		Urgency:       urgencyFor(p),
		Hypothermia:   hypothermiaStage(waterTempF, elapsedHours),
	}
}

// hypothermiaStage implements spec.md §4.7's staged model:
// cold-shock (<3 min), swim-failure (<1h warm water / <30min cold),
// mild-hypothermia (< timeRemaining at p=0.5 for this water temp),
// else severe-hypothermia.
func hypothermiaStage(waterTempF, hours float64) HypothermiaStage {
	const threeMinHours = 3.0 / 60.0
	const oneHour = 1.0
	const thirtyMinHours = 30.0 / 60.0

	if hours < threeMinHours {
		return StageColdShock
	}

	isCold := waterTempF <= 60
	swimFailureLimit := oneHour
	if isCold {
		swimFailureLimit = thirtyMinHours
	}
	if hours < swimFailureLimit {
		return StageSwimFailure
	}

	mildLimit := baseTime(waterTempF) * 0.5
	if hours < mildLimit {
		return StageMildHypothermia
	}
	return StageSevereHypothermia
}
