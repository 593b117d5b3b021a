package memory

import (
	"car-support-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions live for the process lifetime: no expiration, no janitor.
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.UserID, session, cache.NoExpiration)
}

func (r *SessionRepository) Get(userID string) (*store.Session, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userID string) {
	r.cache.Delete(userID)
}
