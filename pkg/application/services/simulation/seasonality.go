package simulation

import (
	"math"

	"github.com/vsinha/demandplan/pkg/domain/entities"
)

// seasonalFactors holds the channel-wide multipliers for one ISO week
type seasonalFactors struct {
	launch  float64
	holiday float64
	school  float64
	dip     float64
}

func seasonalityFor(week int) seasonalFactors {
	return seasonalFactors{
		launch:  launchBump(week),
		holiday: holidayBump(week),
		school:  backToSchoolBump(week),
		dip:     supplyDip(week),
	}
}

// launchBump peaks at W39 and tails off through W46
func launchBump(week int) float64 {
	switch {
	case week >= 37 && week <= 41:
		z := (float64(week) - 39) / 1.5
		return 1 + 3.4*math.Exp(-0.5*z*z)
	case week >= 42 && week <= 46:
		return 1 + 0.3*math.Exp(-0.4*float64(week-42))
	}
	return 1
}

func holidayBump(week int) float64 {
	if week >= 47 && week <= 52 {
		return 1 + 1.8*math.Exp(-0.3*math.Abs(float64(week-50)))
	}
	return 1
}

func backToSchoolBump(week int) float64 {
	if week >= 33 && week <= 37 {
		return 1 + 0.6*math.Exp(-0.5*math.Abs(float64(week-35)))
	}
	return 1
}

func supplyDip(week int) float64 {
	if week >= 6 && week <= 8 {
		return 0.85
	}
	return 1
}

// audioLaunchLag is the launch bump seen one week later by headphone buyers
func audioLaunchLag(week int) float64 {
	prev := week - 1
	if week <= 1 {
		prev = 52
	}
	if prev >= 38 && prev <= 43 {
		return 1 + 2.0*math.Exp(-0.6*math.Abs(float64(prev-40)))
	}
	return 1
}

// accessoryLaunchLag trails the launch bump by about two weeks
func accessoryLaunchLag(week int) float64 {
	if week >= 39 && week <= 45 {
		return 1 + 2.5*math.Exp(-0.5*math.Abs(float64(week-41)))
	}
	return 1
}

// familySeasonality blends the weekly factors with family-specific weights
func familySeasonality(family entities.Family, week int, f seasonalFactors) float64 {
	switch family {
	case entities.FamilyPhone:
		return f.launch * f.holiday * f.school * f.dip
	case entities.FamilyTablet, entities.FamilyComputer:
		return (0.4*f.launch + 0.6) * f.holiday * f.school
	case entities.FamilyWearable:
		return (0.3*f.launch + 0.7) * f.holiday
	case entities.FamilyAudio:
		return audioLaunchLag(week) * f.holiday
	case entities.FamilyAccessory:
		return accessoryLaunchLag(week) * f.holiday
	}
	return 1
}

// lifecycleFactor scales demand by stage and weeks since launch. Negative
// weeksSinceLaunch means the product is not on sale yet.
func lifecycleFactor(stage entities.LifecycleStage, weeksSinceLaunch int) float64 {
	if weeksSinceLaunch < 0 {
		return 0
	}
	w := float64(weeksSinceLaunch)
	switch stage {
	case entities.StageLaunch:
		return math.Max(0.3, math.Exp(-0.08*w)) + 0.3
	case entities.StageGrowth:
		return math.Min(1, 0.5+0.04*w)
	case entities.StageMaturity:
		return 1
	case entities.StageDecline:
		return math.Max(0.2, 1-0.004*w)
	}
	return 1
}

// growthFactor is the linear year-over-year trend, about 6% a year
func growthFactor(year, weekIndex int) float64 {
	return 1 + 0.06*(float64(year-2023)+float64(weekIndex)/HistoryWeeks)
}
