package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "vocilia/pkg/domain"
	"vocilia/pkg/platform/sentinel"
)

// PostgresContextStore reads business context from the lookup database. The
// table is owned by the business management surface; this core only selects.
type PostgresContextStore struct {
	db *sql.DB
}

// NewPostgresContextStore constructs a Postgres-backed context store.
func NewPostgresContextStore(db *sql.DB) *PostgresContextStore {
	return &PostgresContextStore{db: db}
}

const getContextQuery = `
SELECT name, business_type, language, staff_names, departments, promotions, known_issues, updated_at
FROM business_contexts
WHERE business_id = $1`

func (s *PostgresContextStore) Get(ctx context.Context, businessID id.BusinessID) (*Context, error) {
	bc := &Context{BusinessID: businessID}
	var businessType string
	err := s.db.QueryRowContext(ctx, getContextQuery, businessID.String()).Scan(
		&bc.Name,
		&businessType,
		&bc.Language,
		arrayScanner{&bc.StaffNames},
		arrayScanner{&bc.Departments},
		arrayScanner{&bc.Promotions},
		arrayScanner{&bc.KnownIssues},
		&bc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get business context: %w", err)
	}
	bc.BusinessType = Type(businessType)
	return bc, nil
}

// arrayScanner decodes a text[] column without driver-specific array types.
// Values are stored as Postgres array literals ({"a","b"}); splitting on the
// literal syntax keeps the store on plain database/sql.
type arrayScanner struct {
	dest *[]string
}

func (a arrayScanner) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*a.dest = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported array source type %T", src)
	}
	*a.dest = parseTextArray(raw)
	return nil
}

func parseTextArray(raw string) []string {
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return nil
	}
	body := raw[1 : len(raw)-1]
	if body == "" {
		return nil
	}

	var out []string
	var cur []byte
	inQuotes := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == '\\' && inQuotes && i+1 < len(body):
			i++
			cur = append(cur, body[i])
		case c == ',' && !inQuotes:
			out = append(out, string(cur))
			cur = cur[:0]
		default:
			cur = append(cur, c)
		}
	}
	out = append(out, string(cur))
	return out
}
