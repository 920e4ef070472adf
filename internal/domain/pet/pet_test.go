package pet

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Rex", want: "Rex"},
		{in: "  Rex  ", want: "Rex"},
		{in: strings.Repeat("a", 20), want: strings.Repeat("a", 20)},
		{in: strings.Repeat("a", 21), wantErr: true},
		{in: "  " + strings.Repeat("b", 19) + "  ", want: strings.Repeat("b", 19)},
		{in: " " + strings.Repeat("c", 21) + " ", wantErr: true},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "ドラゴン", want: "ドラゴン"},
	}
	for _, tc := range cases {
		got, err := ValidateName(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidName) {
				t.Fatalf("ValidateName(%q): expected ErrInvalidName, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ValidateName(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ValidateName(%q): got=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestStageOrderingAndClamp(t *testing.T) {
	if !(StageEgg < StageBaby && StageBaby < StageTeen && StageTeen < StageAdult) {
		t.Fatalf("stages must be ordered egg < baby < teen < adult")
	}
	if got := ClampStage(-1); got != StageEgg {
		t.Fatalf("expected egg for -1, got %v", got)
	}
	if got := ClampStage(9); got != StageAdult {
		t.Fatalf("expected adult for 9, got %v", got)
	}
	if got := Stage(2).String(); got != "Teen" {
		t.Fatalf("expected Teen, got %s", got)
	}
	if Stage(4).Valid() {
		t.Fatalf("stage 4 must be invalid")
	}
}

func TestMoodOf(t *testing.T) {
	if got := MoodOf(90, 20, 100); got != MoodLoved {
		t.Fatalf("expected loved, got %s", got)
	}
	if got := MoodOf(10, 80, 30); got != MoodNeglected {
		t.Fatalf("expected neglected, got %s", got)
	}
	if got := MoodOf(50, 50, 50); got != MoodNeutral {
		t.Fatalf("expected neutral, got %s", got)
	}
	if got := MoodOf(100, 100, 100); got != MoodNeutral {
		t.Fatalf("a starving pet should not be loved, got %s", got)
	}
}

func TestRecordFound(t *testing.T) {
	if (Record{}).Found() {
		t.Fatalf("zero record must not be found")
	}
	if !(Record{Name: "Rex"}).Found() {
		t.Fatalf("named record must be found")
	}
}
