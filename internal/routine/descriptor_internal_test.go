package routine

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		in      string
		want    Descriptor
		wantErr bool
	}{
		{in: "Squats 3x12", want: Descriptor{Name: "Squats", Kind: KindReps, Sets: 3, Reps: 12}},
		{in: "Plank 3x20s", want: Descriptor{Name: "Plank", Kind: KindTimed, Sets: 3, Seconds: 20}},
		{in: "Sprint intervals 6x30s", want: Descriptor{Name: "Sprint intervals", Kind: KindTimed, Sets: 6, Seconds: 30}},
		{in: "Brisk walk 20 min", want: Descriptor{Name: "Brisk walk", Kind: KindDuration, Minutes: 20}},
		{in: "Estiramiento 10min", want: Descriptor{Name: "Estiramiento", Kind: KindDuration, Minutes: 10}},
		{in: "Rest day", want: Descriptor{Name: "Rest day", Kind: KindPlain}},
		{in: "  V-ups 4x20 ", want: Descriptor{Name: "V-ups", Kind: KindReps, Sets: 4, Reps: 20}},
		{in: "Squats 0x12", wantErr: true},
		{in: "Squats 3x0", wantErr: true},
		{in: "Running 0 min", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDescriptor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDescriptor() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseDescriptor() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDescriptor_StringMatchesCatalogText(t *testing.T) {
	doc := DefaultCatalog()
	for _, goals := range doc.routines {
		for _, list := range goals {
			for _, d := range list {
				parsed, err := ParseDescriptor(d.String())
				if err != nil {
					t.Fatalf("ParseDescriptor(%q) error = %v", d.String(), err)
				}
				if parsed != d {
					t.Errorf("round trip of %q gave %+v", d.String(), parsed)
				}
			}
		}
	}
}

func TestDescriptor_JSON(t *testing.T) {
	day := Day{
		{Name: "Squats", Kind: KindReps, Sets: 3, Reps: 12},
		{Name: "Stretching", Kind: KindDuration, Minutes: 10},
	}
	b, err := json.Marshal(day)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(b), `["Squats 3x12","Stretching 10 min"]`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
	var decoded Day
	if err = json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(day, decoded); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestScaling(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{name: "reps down floors at one", got: scaleDown(1, hardRepsFactor, minReps), want: 1},
		{name: "minutes down floors at five", got: scaleDown(5, hardMinutesFactor, minMinutes), want: 5},
		{name: "seconds down floors at ten", got: scaleDown(12, hardSecondsFactor, minSeconds), want: 10},
		{name: "seconds down above floor", got: scaleDown(30, hardSecondsFactor, minSeconds), want: 24},
		{name: "stretching up", got: scaleUp(13, seniorStretchingFactor), want: 17},
		{name: "young reps up", got: scaleUp(12, youngRepsFactor), want: 13},
		{name: "easy reps up", got: scaleUp(15, easyRepsFactor), want: 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestIsHighImpactAndStretching(t *testing.T) {
	for name, want := range map[string][2]bool{
		"Burpees":       {true, false},
		"Jumping jacks": {true, false},
		"Jump lunges":   {true, false},
		"Saltos":        {true, false},
		"Stretching":    {false, true},
		"Estiramiento":  {false, true},
		"Squats":        {false, false},
	} {
		d := Descriptor{Name: name}
		if got := [2]bool{d.isHighImpact(), d.isStretching()}; got != want {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
}
