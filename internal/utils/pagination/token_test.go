package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	// Standard date/time values
	cursor := domain.TransactionCursor{
		TransactionDate: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		TransactionID:   "4f7d8a52-a1c3-4a2e-9f0e-8f2d7f2b9c11",
	}

	token := EncodeCursor(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, cursor.TransactionDate.Equal(decoded.TransactionDate), "Date should match after decode")
	assert.Equal(t, cursor.TransactionID, decoded.TransactionID)

	// Non-UTC input is normalised
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := domain.TransactionCursor{TransactionDate: time.Date(2024, 1, 1, 2, 0, 0, 0, loc), TransactionID: "x"}
	decoded, err = DecodeCursor(EncodeCursor(local))
	require.NoError(t, err)
	assert.True(t, local.TransactionDate.Equal(decoded.TransactionDate))
}

func TestEncodeCursor_Layout(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	token := EncodeCursor(domain.TransactionCursor{
		TransactionDate: time.Date(2024, 3, 9, 10, 0, 0, 500, loc),
		TransactionID:   "tx-1",
	})

	assert.NotContains(t, token, "=", "tokens are unpadded")
	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09T08:00:00.0000005Z|tx-1", string(raw))
}

func TestDecodeCursorError(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z"))
	_, err = DecodeCursor(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|abc"))
	_, err = DecodeCursor(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestNextToken(t *testing.T) {
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	page := []domain.Transaction{
		{TransactionID: "b", TransactionDate: day},
		{TransactionID: "a", TransactionDate: day},
	}

	assert.Nil(t, NextToken(page, 3), "short page is the last one")
	assert.Nil(t, NextToken(nil, 3))

	token := NextToken(page, 2)
	require.NotNil(t, token)
	cursor, err := DecodeCursor(*token)
	require.NoError(t, err)
	assert.Equal(t, "a", cursor.TransactionID)
}
