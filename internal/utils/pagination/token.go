package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

const (
	// DefaultLimit is used when a caller does not ask for a page size.
	DefaultLimit = 20
	// MaxLimit caps the page size of every listing.
	MaxLimit = 100
)

// NormalizeLimit clamps limit into [1, MaxLimit], using DefaultLimit for non-positive values.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeCursor creates an opaque, URL-safe token from a listing position.
func EncodeCursor(c domain.TransactionCursor) string {
	tokenStr := fmt.Sprintf("%s|%s", c.TransactionDate.UTC().Format(timeFormat), c.TransactionID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (domain.TransactionCursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return domain.TransactionCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return domain.TransactionCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return domain.TransactionCursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	return domain.TransactionCursor{TransactionDate: date, TransactionID: parts[1]}, nil
}

// CursorOf returns the cursor positioned on t.
func CursorOf(t domain.Transaction) domain.TransactionCursor {
	return domain.TransactionCursor{TransactionDate: t.TransactionDate, TransactionID: t.TransactionID}
}

// NextToken returns the token for the page after page, or nil when page is
// shorter than limit and therefore the last one.
func NextToken(page []domain.Transaction, limit int) *string {
	if len(page) == 0 || len(page) < limit {
		return nil
	}
	token := EncodeCursor(CursorOf(page[len(page)-1]))
	return &token
}
