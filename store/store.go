// Package store persists the small per-user client state that survives
// restarts: the profile record, the guide-seen flags, and the selected region.
// Keys are deterministic and scoped by user id. Redis is preferred; when it is
// unreachable the store degrades to process-local memory.
package store

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/meemong/shampooroom/config"
)

const opTimeout = 2 * time.Second

// Profile is the persisted user-profile record.
type Profile struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Store reads and writes the persisted client state.
type Store struct {
	rdb *redis.Client
	log *zap.SugaredLogger

	mu       sync.Mutex
	profiles map[string]Profile
	guides   map[string]map[string]struct{}
	regions  map[string]string
}

// New connects to redis from configuration. A failed ping is tolerated; the
// store then works from memory only.
func New(cfg config.AppConfig, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Store{
		log:      log,
		profiles: map[string]Profile{},
		guides:   map[string]map[string]struct{}{},
		regions:  map[string]string{},
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("redis unavailable, client state held in memory only: %v", err)
	} else {
		s.rdb = rdb
	}
	return s
}

// NewMemory builds a memory-only store; used by tests and offline runs.
func NewMemory(log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{
		log:      log,
		profiles: map[string]Profile{},
		guides:   map[string]map[string]struct{}{},
		regions:  map[string]string{},
	}
}

func profileKey(userID string) string { return "shampoo:user:" + userID + ":profile" }
func guideKey(userID string) string   { return "shampoo:user:" + userID + ":guides" }
func regionKey(userID string) string  { return "shampoo:user:" + userID + ":region" }

// SaveProfile stores the user's profile record.
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	if s.rdb != nil {
		b, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return s.rdb.Set(ctx, profileKey(p.UserID), b, 0).Err()
	}
	s.mu.Lock()
	s.profiles[p.UserID] = p
	s.mu.Unlock()
	return nil
}

// Profile loads the user's profile record; ok is false when none is stored.
func (s *Store) Profile(ctx context.Context, userID string) (Profile, bool, error) {
	if s.rdb != nil {
		b, err := s.rdb.Get(ctx, profileKey(userID)).Bytes()
		if err == redis.Nil {
			return Profile{}, false, nil
		}
		if err != nil {
			return Profile{}, false, err
		}
		var p Profile
		if err := json.Unmarshal(b, &p); err != nil {
			return Profile{}, false, err
		}
		return p, true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	return p, ok, nil
}

// MarkGuideSeen records that the user dismissed the named guide.
func (s *Store) MarkGuideSeen(ctx context.Context, userID, guide string) error {
	if s.rdb != nil {
		return s.rdb.SAdd(ctx, guideKey(userID), guide).Err()
	}
	s.mu.Lock()
	if s.guides[userID] == nil {
		s.guides[userID] = map[string]struct{}{}
	}
	s.guides[userID][guide] = struct{}{}
	s.mu.Unlock()
	return nil
}

// GuideSeen reports whether the user already dismissed the named guide.
func (s *Store) GuideSeen(ctx context.Context, userID, guide string) (bool, error) {
	if s.rdb != nil {
		return s.rdb.SIsMember(ctx, guideKey(userID), guide).Result()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.guides[userID][guide]
	return ok, nil
}

// SaveRegion stores the user's selected region filter.
func (s *Store) SaveRegion(ctx context.Context, userID, region string) error {
	if s.rdb != nil {
		return s.rdb.Set(ctx, regionKey(userID), region, 0).Err()
	}
	s.mu.Lock()
	s.regions[userID] = region
	s.mu.Unlock()
	return nil
}

// Region loads the user's selected region, "" when unset.
func (s *Store) Region(ctx context.Context, userID string) (string, error) {
	if s.rdb != nil {
		v, err := s.rdb.Get(ctx, regionKey(userID)).Result()
		if err == redis.Nil {
			return "", nil
		}
		return v, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regions[userID], nil
}
