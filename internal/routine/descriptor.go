package routine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind tells which magnitude a Descriptor carries.
type Kind int

const (
	// KindPlain has no embedded quantity, e.g. "Rest".
	KindPlain Kind = iota
	// KindReps is sets times repetitions, e.g. "Squats 3x12".
	KindReps
	// KindTimed is sets times seconds, e.g. "Plank 3x20s".
	KindTimed
	// KindDuration is a duration in minutes, e.g. "Brisk walk 20 min".
	KindDuration
)

// Descriptor is one exercise with its target quantity.
//
// The text form used in the catalog and in exports is produced by String and parsed by ParseDescriptor.
type Descriptor struct {
	Name    string
	Kind    Kind
	Sets    int
	Reps    int
	Seconds int
	Minutes int
}

var (
	setsRe     = regexp.MustCompile(`^(.+?)\s+(\d+)x(\d+)(s?)$`)
	durationRe = regexp.MustCompile(`^(.+?)\s+(\d+)\s*min$`)
)

// ParseDescriptor parses the text form of an exercise such as "Squats 3x12", "Plank 3x20s" or "Running 25 min".
func ParseDescriptor(s string) (Descriptor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Descriptor{}, fmt.Errorf("parse descriptor: empty")
	}

	if m := setsRe.FindStringSubmatch(s); m != nil {
		sets, err := parsePositive(m[2])
		if err != nil {
			return Descriptor{}, fmt.Errorf("parse sets of %q: %w", s, err)
		}
		n, err := parsePositive(m[3])
		if err != nil {
			return Descriptor{}, fmt.Errorf("parse quantity of %q: %w", s, err)
		}
		if m[4] == "s" {
			return Descriptor{Name: m[1], Kind: KindTimed, Sets: sets, Reps: 0, Seconds: n, Minutes: 0}, nil
		}
		return Descriptor{Name: m[1], Kind: KindReps, Sets: sets, Reps: n, Seconds: 0, Minutes: 0}, nil
	}

	if m := durationRe.FindStringSubmatch(s); m != nil {
		minutes, err := parsePositive(m[2])
		if err != nil {
			return Descriptor{}, fmt.Errorf("parse minutes of %q: %w", s, err)
		}
		return Descriptor{Name: m[1], Kind: KindDuration, Sets: 0, Reps: 0, Seconds: 0, Minutes: minutes}, nil
	}

	return Descriptor{Name: s, Kind: KindPlain, Sets: 0, Reps: 0, Seconds: 0, Minutes: 0}, nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("atoi: %w", err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// String renders the descriptor in the catalog text format.
func (d Descriptor) String() string {
	switch d.Kind {
	case KindReps:
		return fmt.Sprintf("%s %dx%d", d.Name, d.Sets, d.Reps)
	case KindTimed:
		return fmt.Sprintf("%s %dx%ds", d.Name, d.Sets, d.Seconds)
	case KindDuration:
		return fmt.Sprintf("%s %d min", d.Name, d.Minutes)
	case KindPlain:
		return d.Name
	default:
		return d.Name
	}
}

// MarshalText implements encoding.TextMarshaler so that stored plans keep the familiar text format.
func (d Descriptor) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Descriptor) UnmarshalText(text []byte) error {
	parsed, err := ParseDescriptor(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// isHighImpact reports whether the exercise involves jumping.
func (d Descriptor) isHighImpact() bool {
	name := strings.ToLower(d.Name)
	return strings.Contains(name, "burpee") || strings.Contains(name, "jump") || strings.Contains(name, "salto")
}

func (d Descriptor) isStretching() bool {
	name := strings.ToLower(d.Name)
	return strings.Contains(name, "stretch") || strings.Contains(name, "estiramiento")
}
