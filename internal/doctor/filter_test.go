package doctor

import (
	"reflect"
	"testing"
)

func checkNames(checks []Check) []string {
	var names []string
	for _, c := range checks {
		names = append(names, c.Name())
	}
	return names
}

func TestFilterChecks(t *testing.T) {
	all := DefaultChecks(&fakeCommander{})

	tests := []struct {
		name          string
		args          []string
		wantMatched   []string
		wantUnmatched []string
	}{
		{"no args", nil, checkNames(all), nil},
		{"by name", []string{"history"}, []string{"history"}, nil},
		{"underscore name", []string{"Runtime_Version"}, []string{"runtime-version"}, nil},
		{"by category", []string{"toolchain"}, []string{"package-manager", "runtime-version"}, nil},
		{"dedup", []string{"history", "data"}, []string{"history"}, nil},
		{"unknown", []string{"histroy"}, nil, []string{"histroy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterChecks(all, tt.args)
			if names := checkNames(got.Matched); !reflect.DeepEqual(names, tt.wantMatched) {
				t.Errorf("Matched = %v, want %v", names, tt.wantMatched)
			}
			if !reflect.DeepEqual(got.Unmatched, tt.wantUnmatched) {
				t.Errorf("Unmatched = %v, want %v", got.Unmatched, tt.wantUnmatched)
			}
		})
	}
}

func TestSuggestCheck(t *testing.T) {
	all := DefaultChecks(&fakeCommander{})

	if got := SuggestCheck(all, "histroy"); !reflect.DeepEqual(got, []string{"history"}) {
		t.Errorf("SuggestCheck(histroy) = %v", got)
	}
	if got := SuggestCheck(all, "zzzzzzzz"); len(got) != 0 {
		t.Errorf("SuggestCheck(zzzzzzzz) = %v, want none", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "ab", 2},
		{"kitten", "sitting", 3},
		{"history", "histroy", 2},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
