package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ratehub/internal/adapters"
	"ratehub/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BatchStore struct {
	pool *pgxpool.Pool
}

type quoteRow struct {
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	UpdatedAt    time.Time `json:"updated_at"`
	Source       string    `json:"source"`
}

// LoadBatch reads the refresh time and the quotes in one read-only transaction.
// A row that does not form a valid quote makes the stored state ErrStateCorrupt.
func (s *BatchStore) LoadBatch(ctx context.Context) (domain.Batch, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return domain.Batch{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lastRefresh *time.Time
	err = tx.QueryRow(ctx, `select last_refresh from rate_batch where id = 1`).Scan(&lastRefresh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Batch{}, adapters.ErrStateNotFound
		}
		return domain.Batch{}, fmt.Errorf("failed to select batch: %w", err)
	}

	rows, err := tx.Query(ctx, `select from_currency, to_currency, rate, updated_at, source from rate_quotes`)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	batch := domain.EmptyBatch()
	if lastRefresh != nil {
		batch.LastRefresh = lastRefresh.UTC()
	}
	for rows.Next() {
		var r quoteRow
		if err = rows.Scan(&r.FromCurrency, &r.ToCurrency, &r.Rate, &r.UpdatedAt, &r.Source); err != nil {
			return domain.Batch{}, fmt.Errorf("failed to scan quote: %w", err)
		}
		q, convErr := r.toQuote()
		if convErr != nil {
			return domain.Batch{}, fmt.Errorf("%w: rate_quotes %s_%s: %v", adapters.ErrStateCorrupt, r.FromCurrency, r.ToCurrency, convErr)
		}
		batch.Quotes[q.Pair] = q
	}
	if err = rows.Err(); err != nil {
		return domain.Batch{}, fmt.Errorf("error iterating quotes: %w", err)
	}
	return batch, nil
}

func (r quoteRow) toQuote() (domain.Quote, error) {
	from, err := domain.ParseCurrencyCode(r.FromCurrency)
	if err != nil {
		return domain.Quote{}, err
	}
	to, err := domain.ParseCurrencyCode(r.ToCurrency)
	if err != nil {
		return domain.Quote{}, err
	}
	return domain.NewQuote(domain.NewPair(from, to), r.Rate, r.UpdatedAt.UTC(), r.Source)
}

// SaveBatch replaces every stored quote and the refresh time in one transaction.
func (s *BatchStore) SaveBatch(ctx context.Context, batch domain.Batch) error {
	payload := make([]quoteRow, 0, batch.Len())
	for _, q := range batch.SortedQuotes() {
		payload = append(payload, quoteRow{
			FromCurrency: string(q.Pair.From),
			ToCurrency:   string(q.Pair.To),
			Rate:         q.Rate,
			UpdatedAt:    q.ObservedAt,
			Source:       q.Source,
		})
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal quotes: %w", err)
	}

	var lastRefresh *time.Time
	if batch.HasRefreshed() {
		lastRefresh = &batch.LastRefresh
	}

	const insertQuotes = `
		insert into rate_quotes(from_currency, to_currency, rate, updated_at, source)
		select r.from_currency, r.to_currency, r.rate, r.updated_at, r.source
		from json_to_recordset($1::json) as r(from_currency text, to_currency text, rate double precision, updated_at timestamptz, source text);
	`
	const upsertBatch = `
		insert into rate_batch(id, last_refresh) values (1, $1)
		on conflict (id) do update set last_refresh = excluded.last_refresh;
	`

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `delete from rate_quotes`); err != nil {
		return fmt.Errorf("failed to clear quotes: %w", err)
	}
	if _, err = tx.Exec(ctx, insertQuotes, json.RawMessage(payloadJSON)); err != nil {
		return fmt.Errorf("failed to insert quotes: %w", err)
	}
	if _, err = tx.Exec(ctx, upsertBatch, lastRefresh); err != nil {
		return fmt.Errorf("failed to save last refresh: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func NewBatchStore(pool *pgxpool.Pool) *BatchStore {
	return &BatchStore{pool: pool}
}
