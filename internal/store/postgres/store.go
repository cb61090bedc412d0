package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/wellnesstracker/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Schema is the single table that holds every sheet. The first row of a sheet
// (lowest id) is its header, as in a spreadsheet.
const Schema = `
CREATE TABLE IF NOT EXISTS sheet_row (
	id         BIGSERIAL PRIMARY KEY,
	sheet      TEXT        NOT NULL,
	cells      TEXT[]      NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS sheet_row_sheet_id_idx ON sheet_row (sheet, id);
`

// Store keeps sheet rows in postgres, for running without google credentials.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create sheet_row table: %w", err)
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, sheet, rangeSpec string) (store.Table, error) {
	rng, err := store.ParseRange(rangeSpec)
	if err != nil {
		return store.Table{}, err
	}

	query := `SELECT cells FROM sheet_row WHERE sheet = $1 ORDER BY id`
	args := []any{sheet}
	if rng.EndRow > 0 {
		query += ` LIMIT $2`
		args = append(args, rng.EndRow)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return store.Table{}, fmt.Errorf("query sheet rows: %w", err)
	}
	defer rows.Close()

	var grid [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return store.Table{}, fmt.Errorf("scan sheet row: %w", err)
		}
		grid = append(grid, cells)
	}
	if err := rows.Err(); err != nil {
		return store.Table{}, fmt.Errorf("iterate sheet rows: %w", err)
	}

	return store.SplitHeader(rng.Apply(grid)), nil
}

func (s *Store) Append(ctx context.Context, sheet string, values []string) error {
	if values == nil {
		values = []string{}
	}
	tag, err := s.db.Exec(ctx,
		`INSERT INTO sheet_row (sheet, cells) VALUES ($1, $2)`,
		sheet, values,
	)
	if err != nil {
		return fmt.Errorf("insert sheet row: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return errors.New("sheet row not inserted")
	}
	return nil
}

// EnsureSheet writes the header row if the sheet has no rows yet.
func (s *Store) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	var id int64
	err := s.db.QueryRow(ctx,
		`SELECT id FROM sheet_row WHERE sheet = $1 ORDER BY id LIMIT 1`,
		sheet,
	).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check sheet %s: %w", sheet, err)
	}

	log.Debugf("postgres store: creating sheet [%s]", sheet)
	return s.Append(ctx, sheet, header)
}
