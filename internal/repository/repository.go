package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so every repository can be
// bound to a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshalling list: %w", err)
	}
	return string(encoded), nil
}

func decodeStrings(encoded string) ([]string, error) {
	values := []string{}
	if encoded == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("unmarshalling list: %w", err)
	}
	return values, nil
}
