// Package shallow implements the depth-dependent corrections and
// surf-zone processes of spec.md §4.3, activated when local depth is
// < 20 m (strict <, per spec.md §8's boundary-behavior requirement:
// exactly 20 m does NOT trigger shallow effects).
package shallow

import (
	"math"

	"github.com/sardrift/driftsim/internal/geo"
	"github.com/sardrift/driftsim/internal/models"
)

// ShallowThresholdM, SurfZoneThresholdM, VeryShallowThresholdM are the
// depth bands spec.md §4.3/§8 defines: shallow is strictly below
// ShallowThresholdM; the surf-zone and very-shallow bands include their
// threshold depth (<=).
const (
	ShallowThresholdM    = 20
	SurfZoneThresholdM   = 5
	VeryShallowThresholdM = 2
)

// ManningRoughness is Manning's n for the bottom-friction term.
const ManningRoughness = 0.025

// BreakingRatio is the H/d ratio above which waves are considered
// breaking (spec.md §8: strictly > 0.78, not >=).
const BreakingRatio = 0.78

// Inputs bundles everything the shallow-water step needs beyond the
// plain drift calculators' environmental sample.
type Inputs struct {
	DepthM  float64
	Current models.Current
	Waves   models.Waves
	Gradient *models.BathymetryGradient
	Tidal    *models.Tidal
	Rip      *models.RipCurrent
	AtLat    float64
	UseLatCorrection bool
}

// Result is the combined shallow-water displacement, the beaching
// probability accumulated this step, and the effect tags actually
// applied (spec.md §4.3).
type Result struct {
	DLatDeg, DLngDeg float64
	BeachProbability float64
	Effects          map[models.BeachEffect]struct{}
	Diverged         bool // dispersion solver failed to converge
}

func (r *Result) addEffect(e models.BeachEffect) {
	if r.Effects == nil {
		r.Effects = make(map[models.BeachEffect]struct{})
	}
	r.Effects[e] = struct{}{}
}

func (r *Result) accumulate(distKm, dirDeg float64, in Inputs) {
	dLat, dLng := geo.DirOffsetDeg(distKm, dirDeg, in.AtLat, in.UseLatCorrection)
	r.DLatDeg += dLat
	r.DLngDeg += dLng
}

// Step computes the full shallow-water correction for one time step of
// length dtHours, given 0 < in.DepthM < ShallowThresholdM; outside that
// range it returns a zero Result.
func Step(in Inputs, dtHours float64) Result {
	var res Result
	if in.DepthM >= ShallowThresholdM || in.DepthM <= 0 {
		return res
	}

	curSpeedKmh := geo.KnotsToKmh(in.Current.SpeedKn)

	// 1. Bottom friction.
	f := GravityMS2 * ManningRoughness * ManningRoughness * math.Pow(in.DepthM, -1.0/3.0)
	reduction := math.Min(0.8, f*curSpeedKmh)
	frictionDistKm := -reduction * curSpeedKmh * 1e-3 * dtHours
	res.accumulate(frictionDistKm, in.Current.DirDeg, in)
	res.addEffect(models.EffectBottomFriction)

	// 2. Shallow Stokes drift.
	omega := 2 * math.Pi / in.Waves.PeriodSec
	k, converged := SolveWaveNumber(omega, in.DepthM)
	if !converged {
		res.Diverged = true
	}
	if k > 0 {
		lambda := 2 * math.Pi / k
		c := lambda / in.Waves.PeriodSec
		sinh2kd := math.Sinh(2 * k * in.DepthM)
		enhancement := 1.0
		if sinh2kd != 0 {
			enhancement = 1 + 1/(2*sinh2kd)
		}
		usMs := math.Pi * in.Waves.HeightM * in.Waves.HeightM * c / (in.Waves.PeriodSec * lambda) * enhancement
		usKmh := usMs * 3.6
		res.accumulate(usKmh*dtHours, in.Waves.DirDeg, in)
		res.addEffect(models.EffectShallowStokes)
	}

	// 3. Topographic steering.
	if in.Gradient != nil && in.Gradient.Magnitude > 1e-3 {
		isobathDir := math.Mod(geo.RadToDeg(math.Atan2(-in.Gradient.DzDx, in.Gradient.DzDy))+360, 360)
		alphaIsobath := geo.DegToRad(isobathDir)
		alphaCur := geo.DegToRad(in.Current.DirDeg)
		strength := 0.1 * curSpeedKmh * in.Gradient.Magnitude * math.Sin(alphaIsobath-alphaCur)
		res.accumulate(strength*dtHours, isobathDir, in)
		res.addEffect(models.EffectTopographic)
	}

	// 4. Tidal asymmetry.
	if in.Tidal != nil {
		A := 0.1 * (20 / in.DepthM)
		phase := in.Tidal.Phase
		if phase < 0.5 {
			pushKm := A * math.Sin(math.Pi*phase) * dtHours
			res.accumulate(pushKm, in.Tidal.ShoreDirDeg, in)
		} else {
			pushKm := 0.7 * A * math.Sin(math.Pi*(phase-0.5)) * dtHours
			res.accumulate(pushKm, math.Mod(in.Tidal.ShoreDirDeg+180, 360), in)
		}
		res.addEffect(models.EffectTidalAsymmetry)
	}

	// 5. Surf zone.
	if in.DepthM <= SurfZoneThresholdM {
		ratio := in.Waves.HeightM / in.DepthM
		if ratio > BreakingRatio {
			breakSpeedMs := 0.015 * math.Sqrt(GravityMS2*in.DepthM) * ratio
			res.accumulate(breakSpeedMs*3.6*dtHours, in.Waves.DirDeg, in)
			res.BeachProbability += 0.15 * dtHours
			res.addEffect(models.EffectBreaking)
		}

		if in.Waves.ShoreNormalDeg != nil {
			shoreNormal := *in.Waves.ShoreNormalDeg
			hb := math.Min(in.Waves.HeightM, 0.78*in.DepthM)
			vl := 0.2 * math.Sqrt(GravityMS2*hb) * math.Sin(2*geo.DegToRad(in.Waves.DirDeg-shoreNormal))
			perpDir := math.Mod(shoreNormal+90, 360)
			res.accumulate(vl*3.6*dtHours, perpDir, in)
			res.addEffect(models.EffectLongshore)
		}

		if in.Rip != nil && in.Rip.Risk > 0.5 {
			ripSpeedMs := 1.5 * in.Rip.StrengthM
			res.accumulate(ripSpeedMs*3.6*dtHours, in.Rip.DirDeg, in)
			res.addEffect(models.EffectRipCurrent)
		}

		undertowMs := 0.2 * ratio * math.Min(1, 3/in.DepthM)
		res.accumulate(undertowMs*3.6*dtHours, math.Mod(in.Waves.DirDeg+180, 360), in)
		res.addEffect(models.EffectUndertow)
	}

	// 6. Very shallow.
	if in.DepthM <= VeryShallowThresholdM {
		extraReduction := 0.5 * (1 - in.DepthM/2)
		extraDistKm := -extraReduction * curSpeedKmh * 1e-3 * dtHours
		res.accumulate(extraDistKm, in.Current.DirDeg, in)
		res.BeachProbability += 0.3 * (1 - in.DepthM/2) * dtHours
		res.addEffect(models.EffectVeryShallow)
	}

	return res
}
