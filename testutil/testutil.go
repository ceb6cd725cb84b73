package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/linkweave/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Shuffle permutes docs in place.
func (r *RNG) Shuffle(docs []model.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(docs), func(i, j int) { docs[i], docs[j] = docs[j], docs[i] })
}

// Doc builds a Document that links every target once, in order, using
// Markdown link syntax with underscore-separated targets.
func Doc(id model.ID, title string, targets ...string) model.Document {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is a test article.", title)
	for _, t := range targets {
		fmt.Fprintf(&sb, " See [%s](%s).", t, strings.ReplaceAll(t, " ", "_"))
	}
	return model.Document{
		ID:             id,
		Title:          title,
		Text:           sb.String(),
		OutgoingTitles: append([]string(nil), targets...),
	}
}

// Title returns the title Corpus assigns to document i.
func Title(i int) string {
	return fmt.Sprintf("Article %d", i)
}

// Corpus generates n linked documents with IDs 1..n.
//
// Each document links on average avgLinks other documents; a fraction
// danglingRate of the links points at titles outside the corpus. Repeated
// targets and self-links occur naturally.
func (r *RNG) Corpus(n, avgLinks int, danglingRate float64) []model.Document {
	docs := make([]model.Document, n)
	for i := range n {
		k := 0
		if avgLinks > 0 {
			k = r.Intn(2*avgLinks + 1)
		}
		targets := make([]string, 0, k)
		for range k {
			if r.Float64() < danglingRate {
				targets = append(targets, fmt.Sprintf("Missing %d", r.Intn(1_000_000)))
				continue
			}
			targets = append(targets, Title(r.Intn(n)+1))
		}
		docs[i] = Doc(model.ID(i+1), Title(i+1), targets...)
	}
	return docs
}
