package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps documents as JSONB rows in the documents table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool. The documents table is created by migrations.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	const query = `SELECT id, data, create_time, update_time FROM documents WHERE collection = $1 AND id = $2`

	doc, err := scanDocument(s.pool.QueryRow(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *PostgresStore) Create(ctx context.Context, collection, id string, data any) error {
	raw, err := encodeObject(data)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO documents (collection, id, data, create_time, update_time)
VALUES ($1, $2, $3::jsonb, now(), now())
ON CONFLICT (collection, id) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query, collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data any) error {
	raw, err := encodeObject(data)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO documents (collection, id, data, create_time, update_time)
VALUES ($1, $2, $3::jsonb, now(), now())
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, update_time = now()`

	if _, err := s.pool.Exec(ctx, query, collection, id, string(raw)); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := encodeObject(fields)
	if err != nil {
		return err
	}
	const query = `
UPDATE documents SET data = data || $3::jsonb, update_time = now()
WHERE collection = $1 AND id = $2`

	tag, err := s.pool.Exec(ctx, query, collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, q Query) ([]*Document, error) {
	sql, args, err := buildSelect(collection, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	out := make([]*Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	where, args, err := buildWhere(collection, filters)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM documents WHERE "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanDocument(row pgx.Row) (*Document, error) {
	var (
		doc  Document
		data []byte
	)
	if err := row.Scan(&doc.ID, &data, &doc.CreateTime, &doc.UpdateTime); err != nil {
		return nil, err
	}
	doc.Data = json.RawMessage(data)
	return &doc, nil
}

func buildSelect(collection string, q Query) (string, []any, error) {
	where, args, err := buildWhere(collection, q.Filters)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT id, data, create_time, update_time FROM documents WHERE ")
	sb.WriteString(where)

	if q.OrderBy != "" {
		args = append(args, strings.Split(q.OrderBy, "."))
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY data #> $%d::text[] %s NULLS LAST, id", len(args), dir)
	} else {
		sb.WriteString(" ORDER BY id")
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args, nil
}

// buildWhere expresses each filter as a JSONB containment test so the GIN
// index on data can serve it.
func buildWhere(collection string, filters []Filter) (string, []any, error) {
	args := []any{collection}
	clauses := []string{"collection = $1"}

	for _, f := range filters {
		vals, err := f.values()
		if err != nil {
			return "", nil, err
		}
		if len(vals) == 0 {
			clauses = append(clauses, "FALSE")
			continue
		}
		alts := make([]string, 0, len(vals))
		for _, v := range vals {
			probe, err := json.Marshal(nest(f.Field, v))
			if err != nil {
				return "", nil, fmt.Errorf("docstore: encode filter %q: %w", f.Field, err)
			}
			args = append(args, string(probe))
			alts = append(alts, fmt.Sprintf("data @> $%d::jsonb", len(args)))
		}
		if len(alts) == 1 {
			clauses = append(clauses, alts[0])
		} else {
			clauses = append(clauses, "("+strings.Join(alts, " OR ")+")")
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

func nest(path string, v any) map[string]any {
	parts := strings.Split(path, ".")
	out := map[string]any{parts[len(parts)-1]: v}
	for i := len(parts) - 2; i >= 0; i-- {
		out = map[string]any{parts[i]: out}
	}
	return out
}
