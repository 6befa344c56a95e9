// Package state keeps per-user bot preferences.
package state

import (
	"strconv"
	"sync"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	gocache "github.com/patrickmn/go-cache"
)

// Preferences is what a chat user has told the bot about themselves.
type Preferences struct {
	District string
	Language entity.Language
}

// Store keeps preferences in memory; entries expire after ttl of inactivity.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

func NewStore(ttl, cleanup time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

func (s *Store) Get(userID int64) Preferences {
	v, ok := s.cache.Get(key(userID))
	if !ok {
		return Preferences{}
	}
	return v.(Preferences)
}

func (s *Store) SetDistrict(userID int64, district string) Preferences {
	return s.update(userID, func(p *Preferences) { p.District = district })
}

func (s *Store) SetLanguage(userID int64, lang entity.Language) Preferences {
	return s.update(userID, func(p *Preferences) { p.Language = lang })
}

func (s *Store) Reset(userID int64) {
	s.cache.Delete(key(userID))
}

func (s *Store) update(userID int64, fn func(*Preferences)) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.Get(userID)
	fn(&p)
	s.cache.Set(key(userID), p, s.ttl)
	return p
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
