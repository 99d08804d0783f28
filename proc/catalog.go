package proc

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// ErrCatalogTooSmall is returned when a sample asks for as many or more
// labels than the catalog holds.
var ErrCatalogTooSmall = errors.New("activity catalog too small")

// Catalog is an immutable list of activity labels.
type Catalog struct {
	labels []string

	mu  sync.Mutex
	rng *rand.Rand
}

func NewCatalog(labels []string) *Catalog {
	return NewCatalogWithRand(labels, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewCatalogWithRand builds a catalog that samples from rng.
func NewCatalogWithRand(labels []string, rng *rand.Rand) *Catalog {
	c := &Catalog{labels: make([]string, len(labels)), rng: rng}
	copy(c.labels, labels)
	return c
}

func (c *Catalog) Len() int { return len(c.labels) }

func (c *Catalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Sample draws k distinct labels uniformly without replacement.
// k must be strictly less than the catalog size.
func (c *Catalog) Sample(k int) ([]string, error) {
	if k < 0 || k >= len(c.labels) {
		return nil, fmt.Errorf("%w: need more than %d labels, have %d", ErrCatalogTooSmall, k, len(c.labels))
	}

	c.mu.Lock()
	perm := c.rng.Perm(len(c.labels))
	c.mu.Unlock()

	out := make([]string, k)
	for i := range k {
		out[i] = c.labels[perm[i]]
	}
	return out, nil
}
