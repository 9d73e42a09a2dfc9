package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"weightedQuote/internal/model"
)

// Schema creates the tables the store writes to.
const Schema = `
CREATE TABLE IF NOT EXISTS weighted_pools (
	pool_address     TEXT PRIMARY KEY,
	authority        TEXT NOT NULL,
	mint_lpt         TEXT NOT NULL,
	mints            TEXT[] NOT NULL,
	status           TEXT NOT NULL,
	fee              NUMERIC NOT NULL,
	tax_fee          NUMERIC NOT NULL,
	first_seen_slot  BIGINT NOT NULL,
	last_seen_slot   BIGINT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS weighted_pool_snapshots (
	pool_address TEXT NOT NULL,
	slot         BIGINT NOT NULL,
	state        JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (pool_address, slot)
);
CREATE TABLE IF NOT EXISTS quoter_state (
	name       TEXT PRIMARY KEY,
	last_slot  BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// Store provides Postgres persistence for pool snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

// PutSnapshots upserts pool metadata and records the snapshots.
func (s *Store) PutSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if err := s.UpsertPools(ctx, snapshots); err != nil {
		return fmt.Errorf("upsert pools: %w", err)
	}
	if err := s.InsertSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("insert snapshots: %w", err)
	}
	return nil
}

// UpsertPools inserts or updates pool metadata.
func (s *Store) UpsertPools(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(`
			INSERT INTO weighted_pools (
				pool_address, authority, mint_lpt, mints, status, fee, tax_fee,
				first_seen_slot, last_seen_slot, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7::text::numeric, $8, $8, now(), now())
			ON CONFLICT (pool_address)
			DO UPDATE SET
				authority = EXCLUDED.authority,
				mint_lpt = EXCLUDED.mint_lpt,
				mints = EXCLUDED.mints,
				status = EXCLUDED.status,
				fee = EXCLUDED.fee,
				tax_fee = EXCLUDED.tax_fee,
				first_seen_slot = LEAST(weighted_pools.first_seen_slot, EXCLUDED.first_seen_slot),
				last_seen_slot = GREATEST(weighted_pools.last_seen_slot, EXCLUDED.last_seen_slot),
				updated_at = now()
		`,
			snap.Address,
			snap.Authority,
			snap.MintLpt,
			snap.Mints,
			snap.Status,
			snap.Fee.String(),
			snap.TaxFee.String(),
			int64(snap.Slot),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// InsertSnapshots records full pool state per slot. Re-inserting a slot is a no-op.
func (s *Store) InsertSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		state, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshal snapshot %s: %w", snap.Address, err)
		}
		batch.Queue(`
			INSERT INTO weighted_pool_snapshots (pool_address, slot, state, created_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (pool_address, slot) DO NOTHING
		`, snap.Address, int64(snap.Slot), state)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_slot for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var slot int64
	row := s.pool.QueryRow(ctx, `SELECT last_slot FROM quoter_state WHERE name=$1`, name)
	if err := row.Scan(&slot); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(slot), true, nil
}

// SaveState upserts last_slot for a name.
func (s *Store) SaveState(ctx context.Context, name string, slot uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO quoter_state (name, last_slot, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_slot = EXCLUDED.last_slot, updated_at = now()
	`, name, int64(slot))
	return err
}
