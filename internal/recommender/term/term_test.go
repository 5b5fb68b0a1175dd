package term

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Term
	}{
		{"lowercase", "Fever", "fever"},
		{"trims whitespace", "  cough  ", "cough"},
		{"collapses internal runs", "joint   Pain", "joint_pain"},
		{"tabs and newlines", "chest\t\npain", "chest_pain"},
		{"strips punctuation", "runny-nose", "runnynose"},
		{"punctuation only word dropped", "a - b", "a_b"},
		{"all punctuation", "!!!", ""},
		{"empty input", "", ""},
		{"digits kept", "type 2 diabetes", "type_2_diabetes"},
		{"separator survives", "skin_rash", "skin_rash"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.raw); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Fever", "joint   Pain", "  cough  ", "skin_rash", "!!!"}
	for _, raw := range inputs {
		once := Normalize(raw)
		if twice := Normalize(string(once)); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", raw, twice, once)
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"Fever", "fever", "  ", "!!!", "Cough", "FEVER"})
	want := []Term{"fever", "cough"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeAll = %v, want %v", got, want)
	}
}

func TestNormalizeAllEmpty(t *testing.T) {
	if got := NormalizeAll(nil); len(got) != 0 {
		t.Errorf("NormalizeAll(nil) = %v, want empty", got)
	}
	if got := NormalizeAll([]string{"...", ""}); len(got) != 0 {
		t.Errorf("NormalizeAll(punctuation only) = %v, want empty", got)
	}
}
