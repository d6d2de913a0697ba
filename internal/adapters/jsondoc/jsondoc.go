// Package jsondoc encodes rate state in the JSON layout shared by the file and Redis stores.
package jsondoc

import (
	"encoding/json"
	"fmt"
	"maps"
	"ratehub/internal/adapters"
	"ratehub/internal/domain"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
)

// naive ISO-8601 timestamps without zone are read as UTC
const naiveLayout = "2006-01-02T15:04:05.999999999"

type batchDoc struct {
	Pairs       map[string]pairDoc `json:"pairs"`
	LastRefresh *string            `json:"last_refresh"`
}

type pairDoc struct {
	Rate      float64 `json:"rate"`
	UpdatedAt string  `json:"updated_at"`
	Source    string  `json:"source"`
}

type entryDoc struct {
	ID           string         `json:"id"`
	FromCurrency string         `json:"from_currency"`
	ToCurrency   string         `json:"to_currency"`
	Rate         float64        `json:"rate"`
	Timestamp    string         `json:"timestamp"`
	Source       string         `json:"source"`
	Meta         map[string]any `json:"meta,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation(naiveLayout, raw, time.UTC)
}

func EncodeBatch(batch domain.Batch) ([]byte, error) {
	doc := batchDoc{Pairs: make(map[string]pairDoc, batch.Len())}
	for pair, q := range batch.Quotes {
		doc.Pairs[pair.Key()] = pairDoc{Rate: q.Rate, UpdatedAt: formatTime(q.ObservedAt), Source: q.Source}
	}
	if batch.HasRefreshed() {
		ts := formatTime(batch.LastRefresh)
		doc.LastRefresh = &ts
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeBatch parses a batch document. Invalid JSON is ErrStateCorrupt; single
// unusable pairs (bad key, non-positive rate, bad timestamp) are skipped.
func DecodeBatch(data []byte) (domain.Batch, error) {
	var doc batchDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Batch{}, fmt.Errorf("%w: %v", adapters.ErrStateCorrupt, err)
	}

	batch := domain.EmptyBatch()
	if doc.LastRefresh != nil {
		ts, err := parseTime(*doc.LastRefresh)
		if err != nil {
			return domain.Batch{}, fmt.Errorf("%w: last_refresh %q", adapters.ErrStateCorrupt, *doc.LastRefresh)
		}
		batch.LastRefresh = ts
	}

	for _, key := range slices.Sorted(maps.Keys(doc.Pairs)) {
		pd := doc.Pairs[key]
		pair, err := domain.ParsePairKey(key)
		if err != nil {
			logrus.Warnf("Skipping persisted pair %q: %v", key, err)
			continue
		}
		observedAt, err := parseTime(pd.UpdatedAt)
		if err != nil {
			logrus.Warnf("Skipping persisted pair %q: bad updated_at %q", key, pd.UpdatedAt)
			continue
		}
		q, err := domain.NewQuote(pair, pd.Rate, observedAt, pd.Source)
		if err != nil {
			logrus.Warnf("Skipping persisted pair %q: %v", key, err)
			continue
		}
		batch.Quotes[pair] = q
	}
	return batch, nil
}

func EncodeEntry(e domain.HistoryEntry) ([]byte, error) {
	return json.Marshal(toEntryDoc(e))
}

func EncodeEntries(entries []domain.HistoryEntry) ([]byte, error) {
	docs := make([]entryDoc, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, toEntryDoc(e))
	}
	return json.MarshalIndent(docs, "", "  ")
}

func toEntryDoc(e domain.HistoryEntry) entryDoc {
	var meta map[string]any
	if len(e.Meta) > 0 {
		meta = make(map[string]any, len(e.Meta))
		for k, v := range e.Meta {
			meta[k] = v
		}
	}
	return entryDoc{
		ID:           e.ID,
		FromCurrency: string(e.Quote.Pair.From),
		ToCurrency:   string(e.Quote.Pair.To),
		Rate:         e.Quote.Rate,
		Timestamp:    formatTime(e.Quote.ObservedAt),
		Source:       e.Quote.Source,
		Meta:         meta,
	}
}

// DecodeEntry parses one ledger entry, keeping its persisted id.
func DecodeEntry(data []byte) (domain.HistoryEntry, error) {
	var doc entryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("%w: %v", adapters.ErrStateCorrupt, err)
	}
	return fromEntryDoc(doc)
}

// DecodeEntries parses a ledger document. Invalid JSON is ErrStateCorrupt; single
// unusable entries are skipped.
func DecodeEntries(data []byte) ([]domain.HistoryEntry, error) {
	var docs []entryDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", adapters.ErrStateCorrupt, err)
	}
	entries := make([]domain.HistoryEntry, 0, len(docs))
	for _, doc := range docs {
		e, err := fromEntryDoc(doc)
		if err != nil {
			logrus.Warnf("Skipping persisted history entry %q: %v", doc.ID, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func fromEntryDoc(doc entryDoc) (domain.HistoryEntry, error) {
	from, err := domain.ParseCurrencyCode(doc.FromCurrency)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	to, err := domain.ParseCurrencyCode(doc.ToCurrency)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	ts, err := parseTime(doc.Timestamp)
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("bad timestamp %q", doc.Timestamp)
	}
	// history keeps what was observed, including rates the cache would reject
	q := domain.Quote{Pair: domain.NewPair(from, to), Rate: doc.Rate, ObservedAt: ts, Source: doc.Source}
	id := doc.ID
	if id == "" {
		id = domain.HistoryID(q)
	}
	var meta map[string]string
	if len(doc.Meta) > 0 {
		meta = make(map[string]string, len(doc.Meta))
		for k, v := range doc.Meta {
			meta[k] = fmt.Sprint(v)
		}
	}
	return domain.HistoryEntry{ID: id, Quote: q, Meta: meta}, nil
}
