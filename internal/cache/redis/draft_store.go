// Package redis stores return drafts in Redis with a TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"gstledger/internal/config"
	"gstledger/internal/domain"
	"gstledger/internal/port"
)

const defaultKeyPrefix = "gstledger:draft:"

// commands is the subset of goredis.Cmdable the store uses.
type commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *goredis.IntCmd
	SMembers(ctx context.Context, key string) *goredis.StringSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
}

type draftStore struct {
	client    commands
	keyPrefix string
}

// NewClient connects to Redis and verifies the connection.
func NewClient(cfg *config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// NewDraftStore creates a Redis-backed DraftStore.
func NewDraftStore(client goredis.Cmdable, keyPrefix string) port.DraftStore {
	return newDraftStore(client, keyPrefix)
}

func newDraftStore(client commands, keyPrefix string) *draftStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &draftStore{client: client, keyPrefix: keyPrefix}
}

func (s *draftStore) draftKey(period domain.ReturnPeriod, name string) string {
	return s.keyPrefix + period.Key() + ":" + name
}

func (s *draftStore) indexKey(period domain.ReturnPeriod) string {
	return s.keyPrefix + period.Key() + ":index"
}

func (s *draftStore) Save(ctx context.Context, draft *domain.Draft, ttl time.Duration) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, s.draftKey(draft.Period, draft.Name), data, ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	index := s.indexKey(draft.Period)
	if err := s.client.SAdd(ctx, index, draft.Name).Err(); err != nil {
		return fmt.Errorf("index draft: %w", err)
	}
	if ttl > 0 {
		if err := s.client.Expire(ctx, index, ttl).Err(); err != nil {
			return fmt.Errorf("expire draft index: %w", err)
		}
	}
	return nil
}

func (s *draftStore) Load(ctx context.Context, period domain.ReturnPeriod, name string) (*domain.Draft, error) {
	data, err := s.client.Get(ctx, s.draftKey(period, name)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

// List returns the draft names saved for the period. Names whose draft has
// already expired may still be listed until the index itself expires.
func (s *draftStore) List(ctx context.Context, period domain.ReturnPeriod) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey(period)).Result()
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete drops every draft of the period.
func (s *draftStore) Delete(ctx context.Context, period domain.ReturnPeriod) error {
	names, err := s.List(ctx, period)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(names)+1)
	for _, name := range names {
		keys = append(keys, s.draftKey(period, name))
	}
	keys = append(keys, s.indexKey(period))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete drafts: %w", err)
	}
	return nil
}
