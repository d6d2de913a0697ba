package redisstore

import (
	"context"
	"errors"
	"fmt"

	"ratehub/internal/adapters"
	"ratehub/internal/adapters/jsondoc"
	"ratehub/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Keys are namespaced by prefix so several deployments can share a database.
type Keys struct {
	Batch      string
	HistoryIDs string
	History    string
}

func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = "ratehub"
	}
	return Keys{
		Batch:      prefix + ":rates",
		HistoryIDs: prefix + ":history:ids",
		History:    prefix + ":history",
	}
}

// BatchStore keeps the whole batch as one JSON value, so a save is a single SET.
type BatchStore struct {
	client *redis.Client
	key    string
}

func (s *BatchStore) LoadBatch(ctx context.Context) (domain.Batch, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Batch{}, adapters.ErrStateNotFound
		}
		return domain.Batch{}, fmt.Errorf("failed to get %q: %w", s.key, err)
	}
	batch, err := jsondoc.DecodeBatch(data)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("key %q: %w", s.key, err)
	}
	return batch, nil
}

func (s *BatchStore) SaveBatch(ctx context.Context, batch domain.Batch) error {
	data, err := jsondoc.EncodeBatch(batch)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	if err = s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %q: %w", s.key, err)
	}
	return nil
}

func NewBatchStore(client *redis.Client, keys Keys) *BatchStore {
	return &BatchStore{client: client, key: keys.Batch}
}

// appendScript pushes each entry whose id is not yet in the ids hash.
// KEYS[1] ids hash, KEYS[2] ledger list, ARGV id/doc pairs.
var appendScript = redis.NewScript(`
local added = 0
for i = 1, #ARGV, 2 do
	if redis.call('HSETNX', KEYS[1], ARGV[i], 1) == 1 then
		redis.call('RPUSH', KEYS[2], ARGV[i + 1])
		added = added + 1
	end
end
return added
`)

// HistoryStore is an append-only list of JSON entries plus a hash of seen ids.
type HistoryStore struct {
	client *redis.Client
	keys   Keys
}

func (s *HistoryStore) AppendEntries(ctx context.Context, entries []domain.HistoryEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	args := make([]any, 0, 2*len(entries))
	for _, e := range entries {
		doc, err := jsondoc.EncodeEntry(e)
		if err != nil {
			return 0, fmt.Errorf("failed to encode history entry %q: %w", e.ID, err)
		}
		args = append(args, e.ID, string(doc))
	}

	added, err := appendScript.Run(ctx, s.client, []string{s.keys.HistoryIDs, s.keys.History}, args...).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to append history: %w", err)
	}
	return added, nil
}

func (s *HistoryStore) LoadEntries(ctx context.Context) ([]domain.HistoryEntry, error) {
	docs, err := s.client.LRange(ctx, s.keys.History, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	entries := make([]domain.HistoryEntry, 0, len(docs))
	for i, doc := range docs {
		e, err := jsondoc.DecodeEntry([]byte(doc))
		if err != nil {
			logrus.Warnf("Skipping history entry %d in %q: %v", i, s.keys.History, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func NewHistoryStore(client *redis.Client, keys Keys) *HistoryStore {
	return &HistoryStore{client: client, keys: keys}
}
