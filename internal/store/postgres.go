package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"item-tracker/internal/models"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Postgres stores items in a single table through a pgx pool.
type Postgres struct {
	Pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgres opens a pool, verifies connectivity and ensures the schema exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	p := NewPostgresFromPool(pool)
	if err := p.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgresFromPool wraps an existing pool. The caller owns schema setup.
func NewPostgresFromPool(pool *pgxpool.Pool) *Postgres {
	return &Postgres{Pool: pool, now: time.Now}
}

// EnsureSchema creates the items table if it is missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) Create(ctx context.Context, name string, description *string) (models.Item, error) {
	it, err := newItem(name, description, p.now())
	if err != nil {
		return models.Item{}, err
	}

	_, err = p.Pool.Exec(ctx, `
		INSERT INTO items (id, name, description, date)
		VALUES ($1, $2, $3, $4)`,
		it.ID, it.Name, it.Description, it.Date)
	if err != nil {
		return models.Item{}, classify("insert item", err)
	}
	return it, nil
}

func (p *Postgres) List(ctx context.Context) ([]models.Item, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT id::text, name, description, date
		FROM items
		ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, classify("list items", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Date); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Date = it.Date.UTC()
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list items", err)
	}
	return items, nil
}

func (p *Postgres) DeleteByID(ctx context.Context, id string) (models.Item, error) {
	u, err := parseID(id)
	if err != nil {
		return models.Item{}, err
	}

	var it models.Item
	err = p.Pool.QueryRow(ctx, `
		DELETE FROM items WHERE id = $1
		RETURNING id::text, name, description, date`, u.String()).
		Scan(&it.ID, &it.Name, &it.Description, &it.Date)
	if err != nil {
		return models.Item{}, classify("delete item", err)
	}
	it.Date = it.Date.UTC()
	return it, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.Pool.Close()
}

// classify maps driver errors onto the store's sentinel errors.
func classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.InvalidTextRepresentation:
			return ErrInvalidID
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return ErrValidation
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
