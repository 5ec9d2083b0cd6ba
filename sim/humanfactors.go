package sim

import "math"

// Human-factors model for a warehouse picker.
//
// Fatigue builds from total work hours w and recovers with total rest hours x:
//
//	I(w) = 1 - e^(-d·w)
//	R(x) = e^(-r·x) - 1            (always <= 0)
//	F    = clamp(I(w) + R(x), 0, 1⁻)
//
// Handling time follows fatigue and the learning curve:
//
//	E(w, B) = M + (1-M)·(w+B)^(-b),  b = -log2(LR)
//	Da      = (1 + α·F) · E(w, B) · Do

const secondsPerHour = 3600.0

// maxFatigue is the largest float64 below 1; F never reaches 1.
var maxFatigue = math.Nextafter(1, 0)

// minExperienceHours stands in for w+B when both are zero.
const minExperienceHours = 0.001

// FatigueBuildup returns I(w) for w work hours.
func (h HumanFactors) FatigueBuildup(workHours float64) float64 {
	return 1 - math.Exp(-h.FatigueBuildupRate*workHours)
}

// Recovery returns R(x) for x rest hours. The result is <= 0.
func (h HumanFactors) Recovery(restHours float64) float64 {
	return math.Exp(-h.RecoveryRate*restHours) - 1
}

// Fatigue combines buildup and recovery, clamped to [0, 1).
func (h HumanFactors) Fatigue(workHours, restHours float64) float64 {
	f := h.FatigueBuildup(workHours) + h.Recovery(restHours)
	return min(max(f, 0), maxFatigue)
}

// LearningExponent returns b = -log2(LR).
func (h HumanFactors) LearningExponent() float64 {
	return -math.Log(h.LearningRate) / math.Log(2)
}

// ExperienceFactor returns E(w, B). Lower means faster handling.
func (h HumanFactors) ExperienceFactor(workHours, priorHours float64) float64 {
	total := workHours + priorHours
	if total <= 0 {
		total = minExperienceHours
	}
	return h.AutomationFloor + (1-h.AutomationFloor)*math.Pow(total, -h.LearningExponent())
}

// PickupDuration returns Da in (fractional) ticks.
func (h HumanFactors) PickupDuration(fatigue, workHours, priorHours float64) float64 {
	return (1 + h.FatiguePenalty*fatigue) * h.ExperienceFactor(workHours, priorHours) * float64(h.PickupBaseTicks)
}

// PickupTicks rounds Da to whole ticks, never below one.
func (h HumanFactors) PickupTicks(fatigue, workHours, priorHours float64) int {
	return max(1, int(math.Round(h.PickupDuration(fatigue, workHours, priorHours))))
}

// PauseProbability is the chance a travelling agent skips a step.
// It grows linearly with fatigue and stays below one.
func (h HumanFactors) PauseProbability(fatigue float64) float64 {
	return h.PauseScale * h.FatiguePenalty * fatigue
}

func (h HumanFactors) walkHours() float64   { return h.WalkSeconds / secondsPerHour }
func (h HumanFactors) handleHours() float64 { return h.HandleSeconds / secondsPerHour }
func (h HumanFactors) restHours() float64   { return h.RestSeconds / secondsPerHour }
