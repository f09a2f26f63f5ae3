package entities

import (
	"errors"
	"fmt"
	"strings"
)

var ErrRankExhausted = errors.New("no cards of rank remaining")

// NumBuckets is the number of distinct blackjack values: 2 through 9, the ten group and the Ace
const NumBuckets = 10

// Buckets is a composition collapsed to blackjack values. Index 0..7 hold 2..9,
// index 8 the ten-valued ranks and index 9 the Aces.
type Buckets [NumBuckets]int

// Composition tracks how many cards of each rank remain in the shoe.
// The zero value is an empty shoe. Compositions are values: Remove returns a copy.
type Composition struct {
	counts [NumRanks]int
	total  int
}

// NewComposition returns the composition of a full shoe of the given number of decks
func NewComposition(decks int) Composition {
	var c Composition
	for i := range c.counts {
		c.counts[i] = 4 * decks
	}
	c.total = 52 * decks
	return c
}

// Count returns how many cards of rank r remain. ok is false for an unknown rank.
func (c Composition) Count(r Rank) (n int, ok bool) {
	i := r.Index()
	if i < 0 {
		return 0, false
	}
	return c.counts[i], true
}

// Total returns the number of cards remaining
func (c Composition) Total() int {
	return c.total
}

// TenCount returns the number of ten-valued cards remaining
func (c Composition) TenCount() int {
	return c.counts[Ten.Index()] + c.counts[Jack.Index()] + c.counts[Queen.Index()] + c.counts[King.Index()]
}

// Remove returns a copy of the composition with one card of rank r taken out
func (c Composition) Remove(r Rank) (Composition, error) {
	i := r.Index()
	if i < 0 {
		return c, fmt.Errorf("%w: %q", ErrInvalidRank, r)
	}
	if c.counts[i] <= 0 {
		return c, fmt.Errorf("%w: %s", ErrRankExhausted, r)
	}
	c.counts[i]--
	c.total--
	return c, nil
}

// Buckets collapses the composition into blackjack values
func (c Composition) Buckets() Buckets {
	var b Buckets
	for i := 1; i <= 8; i++ {
		b[i-1] = c.counts[i]
	}
	b[8] = c.TenCount()
	b[9] = c.counts[0]
	return b
}

func (c Composition) String() string {
	parts := make([]string, 0, NumRanks)
	for i, r := range Ranks {
		parts = append(parts, fmt.Sprintf("%s:%d", r, c.counts[i]))
	}
	return fmt.Sprintf("[%s] total=%d", strings.Join(parts, " "), c.total)
}
