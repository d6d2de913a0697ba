package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"ratehub/internal/adapters"
	"ratehub/internal/adapters/jsondoc"
	"ratehub/internal/domain"
)

// BatchStore keeps the rate batch in a single JSON file.
type BatchStore struct {
	path string
	mu   sync.Mutex
}

func (s *BatchStore) LoadBatch(_ context.Context) (domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Batch{}, adapters.ErrStateNotFound
		}
		return domain.Batch{}, fmt.Errorf("failed to read rates file %q: %w", s.path, err)
	}
	batch, err := jsondoc.DecodeBatch(data)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("rates file %q: %w", s.path, err)
	}
	return batch, nil
}

func (s *BatchStore) SaveBatch(_ context.Context, batch domain.Batch) error {
	data, err := jsondoc.EncodeBatch(batch)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.path, data)
}

func NewBatchStore(path string) *BatchStore {
	return &BatchStore{path: path}
}
