package heatmap

import (
	"math"

	"github.com/ramanasai/streak/internal/records"
)

// Steps is the number of intensity levels a cell can take.
const Steps = 5

// StepFunc maps a daily value to an intensity step in [0, Steps).
type StepFunc func(value float64) int

// Palette holds one color per step, lightest first.
type Palette [Steps]string

var (
	DefaultPalette  = Palette{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}
	SleepPalette    = Palette{"#ebedf0", "#fad0c4", "#ff9a9e", "#9be9a8", "#40c463"}
	ExercisePalette = Palette{"#ebedf0", "#c6e48b", "#7bc96f", "#239a3b", "#196127"}
	StudyPalette    = Palette{"#ebedf0", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1"}
)

// SleepStep classifies hours slept. Short nights (under 4h) share step 0 with
// days that have no data.
func SleepStep(hours float64) int {
	if math.IsNaN(hours) {
		return 0
	}
	switch {
	case hours < 4:
		return 0
	case hours < 6:
		return 1
	case hours < 7:
		return 2
	case hours < 9:
		return 3
	}
	return 4
}

// ExerciseStep classifies minutes of exercise.
func ExerciseStep(minutes float64) int {
	if math.IsNaN(minutes) {
		return 0
	}
	switch {
	case minutes <= 0:
		return 0
	case minutes < 30:
		return 1
	case minutes < 60:
		return 2
	case minutes < 90:
		return 3
	}
	return 4
}

// StudyStep classifies minutes of study.
func StudyStep(minutes float64) int {
	if math.IsNaN(minutes) {
		return 0
	}
	switch {
	case minutes <= 0:
		return 0
	case minutes < 30:
		return 1
	case minutes < 60:
		return 2
	case minutes < 120:
		return 3
	}
	return 4
}

// DefaultStep is the generic hours scale used when no kind applies.
func DefaultStep(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	switch {
	case value <= 0:
		return 0
	case value < 4:
		return 1
	case value < 7:
		return 2
	case value < 9:
		return 3
	}
	return 4
}

func StepFor(kind records.Kind) StepFunc {
	switch kind {
	case records.KindSleep:
		return SleepStep
	case records.KindExercise:
		return ExerciseStep
	case records.KindStudy:
		return StudyStep
	}
	return DefaultStep
}

func PaletteFor(kind records.Kind) Palette {
	switch kind {
	case records.KindSleep:
		return SleepPalette
	case records.KindExercise:
		return ExercisePalette
	case records.KindStudy:
		return StudyPalette
	}
	return DefaultPalette
}
