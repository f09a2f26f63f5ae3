package ev

import (
	"sync"

	"github.com/fadedpez/blackjackev/pkg/entities"
)

// maxKeyCards caps the card count stored in keys. Two card hands behave
// differently (naturals, doubling, surrender); beyond that only totals matter.
const maxKeyCards = 3

type peekKind uint8

const (
	peekNone peekKind = iota
	peekNoAce
	peekNoTen
)

type dealerKey struct {
	total   int
	soft    bool
	cards   int
	peek    peekKind
	buckets entities.Buckets
}

func newDealerKey(s State) dealerKey {
	return dealerKey{
		total:   s.Dealer.Value(),
		soft:    s.Dealer.IsSoft(),
		cards:   min(s.Dealer.Len(), maxKeyCards),
		peek:    peekFor(s),
		buckets: s.Shoe.Buckets(),
	}
}

func peekFor(s State) peekKind {
	if !s.DealerChecked {
		return peekNone
	}
	switch {
	case s.Upcard.Rank.IsTenValue():
		return peekNoAce
	case s.Upcard.Rank == entities.Ace:
		return peekNoTen
	}
	return peekNone
}

type playerKey struct {
	total         int
	soft          bool
	canSplit      bool
	cards         int
	upcard        int
	wasSplit      bool
	dealerChecked bool
	numHands      int
	buckets       entities.Buckets
}

func newPlayerKey(s State) playerKey {
	return playerKey{
		total:         s.Player.Value(),
		soft:          s.Player.IsSoft(),
		canSplit:      s.Player.CanSplit(),
		cards:         min(s.Player.Len(), maxKeyCards),
		upcard:        s.Upcard.Rank.Value(),
		wasSplit:      s.WasSplit,
		dealerChecked: s.DealerChecked,
		numHands:      s.NumHands,
		buckets:       s.Shoe.Buckets(),
	}
}

type memo struct {
	mu     sync.RWMutex
	dealer map[dealerKey]DealerOutcomes
	player map[playerKey]Result
}

func newMemo() *memo {
	return &memo{
		dealer: make(map[dealerKey]DealerOutcomes),
		player: make(map[playerKey]Result),
	}
}

func (m *memo) getDealer(k dealerKey) (DealerOutcomes, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, ok := m.dealer[k]
	return out, ok
}

func (m *memo) putDealer(k dealerKey, out DealerOutcomes) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dealer[k] = out
}

func (m *memo) getPlayer(k playerKey) (Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.player[k]
	return r, ok
}

func (m *memo) putPlayer(k playerKey, r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player[k] = r
}

func (m *memo) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.dealer)
	clear(m.player)
}

func (m *memo) size() (dealer, player int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.dealer), len(m.player)
}
