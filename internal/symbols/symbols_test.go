package symbols

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestUniverses(t *testing.T) {
	if len(SP500) < 300 {
		t.Errorf("SP500 has %d symbols, expected several hundred", len(SP500))
	}
	if len(TA125) < 100 {
		t.Errorf("TA125 has %d symbols, expected over a hundred", len(TA125))
	}
	for _, s := range TA125 {
		if !strings.HasSuffix(s, ".TA") {
			t.Errorf("TA125 symbol %q missing .TA suffix", s)
		}
	}
	for _, s := range SP500 {
		if s != strings.ToUpper(s) {
			t.Errorf("SP500 symbol %q not upper-case", s)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.csv")
	content := "Symbol,Name\naapl,Apple\nMSFT,Microsoft\n\nGOOG,Alphabet\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"AAPL", "MSFT", "GOOG"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestShuffle(t *testing.T) {
	original := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	input := append([]string(nil), original...)

	shuffled := Shuffle(input)

	// Input untouched.
	for i := range original {
		if input[i] != original[i] {
			t.Fatalf("Shuffle mutated its input at %d", i)
		}
	}

	// Same multiset.
	a := append([]string(nil), original...)
	b := append([]string(nil), shuffled...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffled list is not a permutation: %v vs %v", a, b)
		}
	}
}
