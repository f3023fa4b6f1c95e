// Package mysql stores synchronized entities as JSON documents keyed by
// (collection, external key) in a single MySQL table.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"charter_sync/internal/domain"
)

var fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)*$`)

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

// Migrate creates the documents table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

// Upsert writes doc under (c, key). Writing the same document twice leaves a
// single row.
func (s *Store) Upsert(ctx context.Context, c domain.Collection, key string, doc any) error {
	if key == "" {
		return fmt.Errorf("%w: empty key for %s", domain.ErrValidation, c)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", c, key, err)
	}
	_, err = s.db.ExecContext(ctx, upsertDocumentSQL, string(c), key, domain.SchemaVersion(c), string(body))
	return err
}

func (s *Store) Get(ctx context.Context, c domain.Collection, key string, dst any) error {
	var body []byte
	err := s.db.QueryRowContext(ctx, getDocumentSQL, string(c), key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

func (s *Store) Find(ctx context.Context, c domain.Collection, q domain.FindQuery) ([][]byte, error) {
	where, args, err := buildWhere(q)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(findDocumentsPrefix)
	sb.WriteString(where)
	if q.Sort != "" {
		if !fieldName.MatchString(q.Sort) {
			return nil, fmt.Errorf("%w: bad sort field %q", domain.ErrValidation, q.Sort)
		}
		sb.WriteString(" ORDER BY JSON_EXTRACT(body, ?)")
		args = append(args, jsonPath(q.Sort))
		if q.Desc {
			sb.WriteString(" DESC")
		}
		sb.WriteString(", doc_key")
	} else {
		sb.WriteString(" ORDER BY doc_key")
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), append([]any{string(c)}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context, c domain.Collection, q domain.FindQuery) (int, error) {
	where, args, err := buildWhere(q)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, countDocumentsPrefix+where, append([]any{string(c)}, args...)...).Scan(&n)
	return n, err
}

func (s *Store) GroupCount(ctx context.Context, c domain.Collection, field string) ([]domain.GroupCount, error) {
	if !fieldName.MatchString(field) {
		return nil, fmt.Errorf("%w: bad group field %q", domain.ErrValidation, field)
	}
	rows, err := s.db.QueryContext(ctx, groupCountSQL, jsonPath(field), string(c))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GroupCount
	for rows.Next() {
		var g domain.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func jsonPath(field string) string { return "$." + field }

// buildWhere renders the filter part of q. Field names are validated, values
// are always bound.
func buildWhere(q domain.FindQuery) (string, []any, error) {
	var (
		sb   strings.Builder
		args []any
	)
	for _, f := range sortedKeys(q.Eq) {
		if !fieldName.MatchString(f) {
			return "", nil, fmt.Errorf("%w: bad filter field %q", domain.ErrValidation, f)
		}
		sb.WriteString(" AND " + fieldExpr + " = ?")
		args = append(args, jsonPath(f), textValue(q.Eq[f]))
	}
	for _, f := range sortedKeys(q.In) {
		if !fieldName.MatchString(f) {
			return "", nil, fmt.Errorf("%w: bad filter field %q", domain.ErrValidation, f)
		}
		vals := q.In[f]
		if len(vals) == 0 {
			sb.WriteString(" AND 1 = 0")
			continue
		}
		sb.WriteString(" AND " + fieldExpr + " IN (" + strings.TrimSuffix(strings.Repeat("?,", len(vals)), ",") + ")")
		args = append(args, jsonPath(f))
		for _, v := range vals {
			args = append(args, textValue(v))
		}
	}
	for _, r := range []struct {
		op string
		m  map[string]any
	}{{">=", q.Gte}, {"<=", q.Lte}} {
		for _, f := range sortedKeys(r.m) {
			if !fieldName.MatchString(f) {
				return "", nil, fmt.Errorf("%w: bad filter field %q", domain.ErrValidation, f)
			}
			v := r.m[f]
			if t, ok := v.(time.Time); ok {
				sb.WriteString(" AND " + timeFieldExpr + " " + r.op + " ?")
				args = append(args, jsonPath(f), t.UTC().Format(timeBound))
				continue
			}
			sb.WriteString(" AND " + numericFieldExpr + " " + r.op + " ?")
			args = append(args, jsonPath(f), v)
		}
	}
	return sb.String(), args, nil
}

func textValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// sortedKeys gives filters a stable order so statements are reusable.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
