package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateUnit(ctx context.Context, unit *Unit) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO unit_kerja (code, name)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		unit.Code, unit.Name,
	).Scan(&unit.ID, &unit.CreatedAt)
}

func (s *PostgresStore) GetUnit(ctx context.Context, id uuid.UUID) (*Unit, error) {
	u := &Unit{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, created_at
		FROM unit_kerja WHERE id = $1`, id,
	).Scan(&u.ID, &u.Code, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) ListUnits(ctx context.Context) ([]*Unit, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, created_at
		FROM unit_kerja ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*Unit
	for rows.Next() {
		u := &Unit{}
		if err := rows.Scan(&u.ID, &u.Code, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

const factorColumns = `id, unit_id, year, category, text, weight, rating, rank, source, created_at, updated_at`

func scanFactor(row pgx.Row) (*SWOTFactor, error) {
	f := &SWOTFactor{}
	var category string
	err := row.Scan(
		&f.ID, &f.UnitID, &f.Year, &category, &f.Text,
		&f.Weight, &f.Rating, &f.Rank, &f.Source,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Category = Category(category)
	return f, nil
}

func (s *PostgresStore) ReplaceUnitFactors(ctx context.Context, unitID uuid.UUID, year int, factors map[Category][]*SWOTFactor) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, category := range Categories {
		fs, ok := factors[category]
		if !ok {
			continue
		}
		if err := replaceCategory(ctx, tx, unitID, year, category, fs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func replaceCategory(ctx context.Context, tx pgx.Tx, unitID uuid.UUID, year int, category Category, factors []*SWOTFactor) error {
	if _, err := tx.Exec(ctx, `
		DELETE FROM swot_factors
		WHERE unit_id = $1 AND year = $2 AND category = $3`,
		unitID, year, string(category),
	); err != nil {
		return fmt.Errorf("delete %s factors: %w", category, err)
	}

	for _, f := range factors {
		f.UnitID = unitID
		f.Year = year
		f.Category = category
		err := tx.QueryRow(ctx, `
			INSERT INTO swot_factors (unit_id, year, category, text, weight, rating, rank, source)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at`,
			f.UnitID, f.Year, string(f.Category), f.Text, f.Weight, f.Rating, f.Rank, f.Source,
		).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert %s factor: %w", category, err)
		}
	}
	return nil
}

func (s *PostgresStore) ListSWOTFactors(ctx context.Context, filter SWOTFilter) ([]*SWOTFactor, error) {
	query := `SELECT ` + factorColumns + ` FROM swot_factors WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.UnitID != nil {
		n++
		query += fmt.Sprintf(" AND unit_id = $%d", n)
		args = append(args, *filter.UnitID)
	}
	if filter.Year != 0 {
		n++
		query += fmt.Sprintf(" AND year = $%d", n)
		args = append(args, filter.Year)
	}
	if filter.Category != nil {
		n++
		query += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, string(*filter.Category))
	}

	query += " ORDER BY unit_id, year, category, rank ASC, created_at ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var factors []*SWOTFactor
	for rows.Next() {
		f, err := scanFactor(rows)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return factors, rows.Err()
}

func (s *PostgresStore) UpdateFactorWeights(ctx context.Context, factors []*SWOTFactor) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, f := range factors {
		tag, err := tx.Exec(ctx, `
			UPDATE swot_factors
			SET weight = $2, rank = $3, rating = $4, updated_at = now()
			WHERE id = $1`,
			f.ID, f.Weight, f.Rank, f.Rating,
		)
		if err != nil {
			return fmt.Errorf("update factor %s: %w", f.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update factor %s: not found", f.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCategoryTotals(ctx context.Context, year int) ([]*CategoryTotal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT unit_id, year, category, COUNT(*)::int, SUM(weight)::int, MIN(weight), MAX(weight)
		FROM swot_factors
		WHERE year = $1
		GROUP BY unit_id, year, category
		ORDER BY unit_id, category`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*CategoryTotal
	for rows.Next() {
		t := &CategoryTotal{}
		var category string
		if err := rows.Scan(&t.UnitID, &t.Year, &category, &t.Count, &t.TotalWeight, &t.MinWeight, &t.MaxWeight); err != nil {
			return nil, err
		}
		t.Category = Category(category)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
