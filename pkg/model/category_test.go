package model

import (
	"testing"

	"github.com/pkg/errors"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"Support", CategorySupport},
		{"  against\n", CategoryAgainst},
		{"3. Implementation", CategoryImplementation},
		{"\"Reversal\".", CategoryReversal},
		{"Other/Factual", CategoryOtherFactual},
		{"factual", CategoryOtherFactual},
		{"Support\nThe speaker endorses the treaty.", CategorySupport},
		{"Against because of costs", CategoryAgainst},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if err != nil {
			t.Fatalf("ParseCategory(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCategory(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseCategoryUnknown(t *testing.T) {
	for _, in := range []string{"", "neutral", "I cannot decide"} {
		if _, err := ParseCategory(in); !errors.Is(err, ErrUnknownCategory) {
			t.Fatalf("ParseCategory(%q) err = %v", in, err)
		}
	}
}

func TestResultTableCounts(t *testing.T) {
	table := ResultTable{
		{SpeechID: "1", Category: CategorySupport},
		{SpeechID: "2", Category: CategorySupport},
		{SpeechID: "3", Category: CategoryReversal},
	}
	counts := table.Counts()
	if counts[CategorySupport] != 2 || counts[CategoryReversal] != 1 || counts[CategoryAgainst] != 0 {
		t.Fatalf("counts = %v", counts)
	}
}
