package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Cursor timestamps round-trip through RFC3339Nano so ordering survives encoding.
const timeFormat = time.RFC3339Nano

// EncodeToken builds an opaque cursor from a transaction date and creation time.
// Listing endpoints hand it back to fetch the next page.
func EncodeToken(txnDate time.Time, createdAt time.Time) string {
	raw := txnDate.Format(timeFormat) + "|" + createdAt.Format(timeFormat)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeToken reverses EncodeToken.
func DecodeToken(token string) (time.Time, time.Time, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	first, second, found := strings.Cut(string(raw), "|")
	if !found {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (split)")
	}

	txnDate, err := time.Parse(timeFormat, first)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (transaction date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, second)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return txnDate, createdAt, nil
}

// EncodeMultiFieldToken builds a cursor from an arbitrary list of string
// fields. Fields must not contain the separator.
func EncodeMultiFieldToken(fields ...string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken reverses EncodeMultiFieldToken.
func DecodeMultiFieldToken(token string) ([]string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(raw), "|"), nil
}
