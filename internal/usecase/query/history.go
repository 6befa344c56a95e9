package query

import (
	"sync"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/patrickmn/go-cache"
)

// HistoryStore keeps the last limit exchanges per user. A user's history
// expires ttl after their latest exchange.
type HistoryStore struct {
	mu    sync.Mutex
	users *cache.Cache
	limit int
	ttl   time.Duration
}

type ring struct {
	items []entity.Exchange
	next  int
	full  bool
}

func (r *ring) push(ex entity.Exchange) {
	r.items[r.next] = ex
	r.next = (r.next + 1) % len(r.items)
	if r.next == 0 {
		r.full = true
	}
}

// ordered returns the exchanges oldest first.
func (r *ring) ordered() []entity.Exchange {
	if !r.full {
		return append([]entity.Exchange(nil), r.items[:r.next]...)
	}
	out := make([]entity.Exchange, 0, len(r.items))
	out = append(out, r.items[r.next:]...)
	return append(out, r.items[:r.next]...)
}

func NewHistoryStore(limit int, ttl, cleanup time.Duration) *HistoryStore {
	if limit < 1 {
		limit = 1
	}
	return &HistoryStore{
		users: cache.New(ttl, cleanup),
		limit: limit,
		ttl:   ttl,
	}
}

func (h *HistoryStore) Append(userID string, ex entity.Exchange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.get(userID)
	if !ok {
		r = &ring{items: make([]entity.Exchange, h.limit)}
	}
	r.push(ex)

	h.users.Set(userID, r, h.ttl)
}

// Recent returns a copy of the user's exchanges, oldest first.
func (h *HistoryStore) Recent(userID string) []entity.Exchange {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.get(userID)
	if !ok {
		return []entity.Exchange{}
	}
	return r.ordered()
}

func (h *HistoryStore) get(userID string) (*ring, bool) {
	v, ok := h.users.Get(userID)
	if !ok {
		return nil, false
	}
	r, ok := v.(*ring)
	return r, ok
}
