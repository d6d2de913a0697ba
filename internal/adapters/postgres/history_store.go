package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"ratehub/internal/domain"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HistoryStore struct {
	pool *pgxpool.Pool
}

type entryRow struct {
	ID           string            `json:"id"`
	FromCurrency string            `json:"from_currency"`
	ToCurrency   string            `json:"to_currency"`
	Rate         float64           `json:"rate"`
	ObservedAt   time.Time         `json:"observed_at"`
	Source       string            `json:"source"`
	Meta         map[string]string `json:"meta"`
}

// AppendEntries inserts entries in order; ids already present are skipped by the unique constraint.
func (s *HistoryStore) AppendEntries(ctx context.Context, entries []domain.HistoryEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	payload := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		meta := e.Meta
		if meta == nil {
			meta = map[string]string{}
		}
		payload = append(payload, entryRow{
			ID:           e.ID,
			FromCurrency: string(e.Quote.Pair.From),
			ToCurrency:   string(e.Quote.Pair.To),
			Rate:         e.Quote.Rate,
			ObservedAt:   e.Quote.ObservedAt,
			Source:       e.Quote.Source,
			Meta:         meta,
		})
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal history entries: %w", err)
	}

	const q = `
		insert into rate_history(id, from_currency, to_currency, rate, observed_at, source, meta)
		select r.id, r.from_currency, r.to_currency, r.rate, r.observed_at, r.source, r.meta
		from rows from (
			json_to_recordset($1::json) as (id text, from_currency text, to_currency text, rate double precision, observed_at timestamptz, source text, meta jsonb)
		) with ordinality as r(id, from_currency, to_currency, rate, observed_at, source, meta, ord)
		order by r.ord
		on conflict (id) do nothing;
	`
	tag, err := s.pool.Exec(ctx, q, json.RawMessage(payloadJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to append history: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *HistoryStore) LoadEntries(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		select id, from_currency, to_currency, rate, observed_at, source, meta
		from rate_history order by seq;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0, 64)
	for rows.Next() {
		var r entryRow
		if err = rows.Scan(&r.ID, &r.FromCurrency, &r.ToCurrency, &r.Rate, &r.ObservedAt, &r.Source, &r.Meta); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		var meta map[string]string
		if len(r.Meta) > 0 {
			meta = r.Meta
		}
		entries = append(entries, domain.HistoryEntry{
			ID: r.ID,
			Quote: domain.Quote{
				Pair:       domain.Pair{From: domain.CurrencyCode(r.FromCurrency), To: domain.CurrencyCode(r.ToCurrency)},
				Rate:       r.Rate,
				ObservedAt: r.ObservedAt.UTC(),
				Source:     r.Source,
			},
			Meta: meta,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	return entries, nil
}

func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}
