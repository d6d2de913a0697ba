package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"
	"time"

	"ratehub/internal/adapters"
	"ratehub/internal/adapters/jsondoc"
	"ratehub/internal/domain"

	"github.com/sirupsen/logrus"
)

// HistoryStore keeps the ledger as a JSON list in one file and an in-memory index of ids.
type HistoryStore struct {
	path string
	// -----
	mu      sync.Mutex
	loaded  bool
	entries []domain.HistoryEntry
	ids     map[string]struct{}
}

func (s *HistoryStore) LoadEntries(_ context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return slices.Clone(s.entries), nil
}

func (s *HistoryStore) AppendEntries(_ context.Context, entries []domain.HistoryEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		if !errors.Is(err, adapters.ErrStateCorrupt) {
			return 0, err
		}
		// keep the unreadable file aside and start a fresh ledger
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UnixNano())
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			return 0, fmt.Errorf("failed to move corrupt history file aside: %w", renameErr)
		}
		logrus.Warnf("History file %q was corrupt, moved to %q; starting an empty history", s.path, backup)
		s.reset()
	}

	fresh := make([]domain.HistoryEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := s.ids[e.ID]; ok {
			continue
		}
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	all := append(slices.Clone(s.entries), fresh...)
	data, err := jsondoc.EncodeEntries(all)
	if err != nil {
		return 0, fmt.Errorf("failed to encode history: %w", err)
	}
	if err = writeFileAtomic(s.path, data); err != nil {
		return 0, err
	}

	s.entries = all
	for id := range seen {
		s.ids[id] = struct{}{}
	}
	return len(fresh), nil
}

func (s *HistoryStore) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.reset()
			return nil
		}
		return fmt.Errorf("failed to read history file %q: %w", s.path, err)
	}
	entries, err := jsondoc.DecodeEntries(data)
	if err != nil {
		return fmt.Errorf("history file %q: %w", s.path, err)
	}

	s.reset()
	for _, e := range entries {
		if _, ok := s.ids[e.ID]; ok {
			continue
		}
		s.ids[e.ID] = struct{}{}
		s.entries = append(s.entries, e)
	}
	return nil
}

func (s *HistoryStore) reset() {
	s.entries = nil
	s.ids = make(map[string]struct{})
	s.loaded = true
}

func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}
