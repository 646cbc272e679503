package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sess:%s"

// Store persists sessions in Redis. When no Redis client is available it
// degrades to an in-process map, which is enough for local development but
// loses sessions on restart.
type Store struct {
	rdb *redis.Client
	ttl time.Duration

	mu       sync.Mutex
	fallback map[string]string
}

// NewStore returns a session store backed by rdb with the given TTL.
// rdb may be nil.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb:      rdb,
		ttl:      ttl,
		fallback: make(map[string]string),
	}
}

// TTL returns the session lifetime, used for cookie expiry.
func (st *Store) TTL() time.Duration {
	return st.ttl
}

func sessionKey(id string) string {
	return fmt.Sprintf(keyPrefix, id)
}

// New creates, persists, and returns a fresh anonymous session.
func (st *Store) New(ctx context.Context) (*Session, error) {
	sess := newSession()
	if err := st.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads the session with the given id. Returns (nil, nil) when the id is
// unknown or expired.
func (st *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}

	var raw string
	if st.rdb != nil {
		s, err := st.rdb.Get(ctx, sessionKey(id)).Result()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		raw = s
	} else {
		st.mu.Lock()
		s, ok := st.fallback[id]
		st.mu.Unlock()
		if !ok {
			return nil, nil
		}
		raw = s
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save writes the session back to the store, refreshing its TTL.
func (st *Store) Save(ctx context.Context, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	if st.rdb != nil {
		return st.rdb.Set(ctx, sessionKey(sess.ID), b, st.ttl).Err()
	}

	st.mu.Lock()
	st.fallback[sess.ID] = string(b)
	st.mu.Unlock()
	return nil
}

// Destroy removes the session from the store.
func (st *Store) Destroy(ctx context.Context, id string) error {
	if st.rdb != nil {
		return st.rdb.Del(ctx, sessionKey(id)).Err()
	}

	st.mu.Lock()
	delete(st.fallback, id)
	st.mu.Unlock()
	return nil
}
