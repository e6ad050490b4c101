package routine

import (
	"math"
	"strconv"
)

// Adjustment factors and floors.
const (
	easyRepsFactor    = 1.2
	easyMinutesFactor = 1.1
	easySecondsFactor = 1.2

	hardRepsFactor    = 0.8
	hardMinutesFactor = 0.9
	hardSecondsFactor = 0.8

	lowCalorieRepsFactor  = 0.85
	highCalorieRepsFactor = 1.1
	lowCalorieThreshold   = 1800
	highCalorieThreshold  = 2500

	seniorAge              = 50
	seniorHighImpactFactor = 0.7
	seniorStretchingFactor = 1.3
	youngAge               = 25
	youngRepsFactor        = 1.05

	minReps    = 1
	minMinutes = 5
	minSeconds = 10

	// rotationStep is how many exercises each consecutive day shifts the base list by.
	rotationStep = 2
)

// Generator produces routines from a catalog. It holds no mutable state and is safe for concurrent use.
type Generator struct {
	catalog *Catalog
}

// NewGenerator creates a Generator over catalog.
func NewGenerator(catalog *Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// Catalog returns the catalog the generator draws from.
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}

// Generate returns the default catalog's routine for req.
func Generate(req Request) (Plan, error) {
	return NewGenerator(DefaultCatalog()).Generate(req)
}

// Generate builds a plan of req.Days days.
//
// The base list for the level and goal is adjusted for feedback, then nutrition, then age. Each pass works on
// the output of the previous one. Day i is the adjusted list rotated left by 2*i positions.
//
// The only error returned is *InvalidSelectionError.
func (g *Generator) Generate(req Request) (Plan, error) {
	base, err := g.catalog.Lookup(req.Level, req.Goal)
	if err != nil {
		return nil, err
	}
	if req.Days < MinDays || req.Days > MaxDays {
		return nil, &InvalidSelectionError{Field: "days", Value: strconv.Itoa(req.Days)}
	}

	if req.Feedback != nil {
		adjustForFeedback(base, req.Feedback.Difficulty)
	}
	if req.Nutrition != nil {
		adjustForNutrition(base, *req.Nutrition)
	}
	adjustForAge(base, req.Age)

	return distribute(base, req.Days), nil
}

func adjustForFeedback(exercises []Descriptor, difficulty Difficulty) {
	switch difficulty {
	case DifficultyEasy:
		for i := range exercises {
			d := &exercises[i]
			switch d.Kind {
			case KindReps:
				d.Reps = scaleUp(d.Reps, easyRepsFactor)
			case KindTimed:
				d.Seconds = scaleUp(d.Seconds, easySecondsFactor)
			case KindDuration:
				d.Minutes = scaleUp(d.Minutes, easyMinutesFactor)
			case KindPlain:
			}
		}
	case DifficultyHard:
		for i := range exercises {
			d := &exercises[i]
			switch d.Kind {
			case KindReps:
				d.Reps = scaleDown(d.Reps, hardRepsFactor, minReps)
			case KindTimed:
				d.Seconds = scaleDown(d.Seconds, hardSecondsFactor, minSeconds)
			case KindDuration:
				d.Minutes = scaleDown(d.Minutes, hardMinutesFactor, minMinutes)
			case KindPlain:
			}
		}
	case DifficultyNormal:
	}
}

func adjustForNutrition(exercises []Descriptor, n Nutrition) {
	switch {
	case n.Goal == GoalLoseWeight && n.Calories < lowCalorieThreshold:
		for i := range exercises {
			if exercises[i].Kind == KindReps {
				exercises[i].Reps = scaleDown(exercises[i].Reps, lowCalorieRepsFactor, minReps)
			}
		}
	case n.Goal == GoalGainMuscle && n.Calories > highCalorieThreshold:
		for i := range exercises {
			if exercises[i].Kind == KindReps {
				exercises[i].Reps = scaleUp(exercises[i].Reps, highCalorieRepsFactor)
			}
		}
	}
}

func adjustForAge(exercises []Descriptor, age int) {
	switch {
	case age > seniorAge:
		for i := range exercises {
			d := &exercises[i]
			switch {
			case d.isHighImpact() && d.Kind == KindReps:
				d.Reps = scaleDown(d.Reps, seniorHighImpactFactor, minReps)
			case d.isStretching() && d.Kind == KindDuration:
				d.Minutes = scaleUp(d.Minutes, seniorStretchingFactor)
			}
		}
	case age < youngAge:
		for i := range exercises {
			d := &exercises[i]
			if !d.isStretching() && d.Kind == KindReps {
				d.Reps = scaleUp(d.Reps, youngRepsFactor)
			}
		}
	}
}

// distribute lays out days copies of exercises, each rotated by rotationStep more than the previous day.
func distribute(exercises []Descriptor, days int) Plan {
	plan := make(Plan, days)
	n := len(exercises)
	for i := range days {
		shift := (i * rotationStep) % n
		day := make(Day, 0, n)
		day = append(day, exercises[shift:]...)
		day = append(day, exercises[:shift]...)
		plan[i] = day
	}
	return plan
}

func scaleUp(n int, factor float64) int {
	return int(math.Ceil(float64(n) * factor))
}

func scaleDown(n int, factor float64, floor int) int {
	return max(floor, int(math.Floor(float64(n)*factor)))
}
