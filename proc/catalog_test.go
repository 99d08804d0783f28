package proc

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestCatalogSampleDistinct(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "e", "f"}
	c := NewCatalogWithRand(labels, rand.New(rand.NewPCG(1, 2)))

	for i := 0; i < 200; i++ {
		got, err := c.Sample(3)
		if err != nil {
			t.Fatalf("Sample: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("Sample returned %d labels", len(got))
		}
		seen := map[string]bool{}
		for _, l := range got {
			if seen[l] {
				t.Fatalf("duplicate label %q in %v", l, got)
			}
			seen[l] = true
		}
	}
}

func TestCatalogSampleCoversEveryLabel(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "e"}
	c := NewCatalogWithRand(labels, rand.New(rand.NewPCG(7, 7)))

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		got, _ := c.Sample(2)
		for _, l := range got {
			seen[l] = true
		}
	}
	if len(seen) != len(labels) {
		t.Errorf("saw %d distinct labels over many samples, want %d", len(seen), len(labels))
	}
}

func TestCatalogTooSmall(t *testing.T) {
	c := NewCatalog([]string{"a", "b", "c"})
	if _, err := c.Sample(3); !errors.Is(err, ErrCatalogTooSmall) {
		t.Errorf("Sample(3) on 3 labels: err = %v, want ErrCatalogTooSmall", err)
	}
	if _, err := c.Sample(2); err != nil {
		t.Errorf("Sample(2) on 3 labels: %v", err)
	}
}
