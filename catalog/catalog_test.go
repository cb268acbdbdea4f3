package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func set(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func TestReadCollapsesBlanksAndDuplicates(t *testing.T) {
	input := "00123\n\nAB12\r\n00123\n\nCD34\n"
	c, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 codes, got %d", c.Len())
	}
	want := []string{"00123", "AB12", "CD34"}
	if got := c.Codes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected codes: %v", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.txt")
	if err := os.WriteFile(path, []byte("X1\nY2\n\nX1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 2 || !c.Contains("X1") || !c.Contains("Y2") {
		t.Fatalf("unexpected catalog: %v", c.Codes())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestValidateExactIntersection(t *testing.T) {
	c := New("AB12", "00123")
	got := c.Validate(set("AB12", "CD34", "O0123"))
	if !reflect.DeepEqual(got, set("AB12")) {
		t.Fatalf("unexpected validated set: %v", got)
	}
}

func TestValidateIdempotent(t *testing.T) {
	c := New("AB12", "CD34")
	once := c.Validate(set("AB12", "ZZ99"))
	twice := c.Validate(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("validate not idempotent: %v vs %v", once, twice)
	}
}

func TestValidateEmptyCatalog(t *testing.T) {
	c := New()
	if got := c.Validate(set("AB12", "CD34")); len(got) != 0 {
		t.Fatalf("empty catalog must validate nothing, got %v", got)
	}
}

func TestNewDropsEmptyStrings(t *testing.T) {
	c := New("", "AB12", "")
	if c.Len() != 1 || c.Contains("") {
		t.Fatalf("empty codes must be dropped: %v", c.Codes())
	}
}

func TestAlphabet(t *testing.T) {
	c := New("AB1", "B2")
	if got := c.Alphabet(); got != "12AB" {
		t.Fatalf("unexpected alphabet: %q", got)
	}
}
