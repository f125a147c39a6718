package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	txnDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 6, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(txnDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreated, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, txnDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))

	zero := time.Time{}
	gotDate, gotCreated, err = DecodeToken(EncodeToken(zero, zero))
	require.NoError(t, err)
	assert.True(t, gotDate.IsZero())
	assert.True(t, gotCreated.IsZero())
}

func TestDecodeTokenErrors(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// valid base64 but no separator
	_, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// "notadate|<valid timestamp>"
	_, _, err = DecodeToken("bm90YWRhdGV8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODla")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction date parse")
}

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	fields := []string{"acct-1", time.Now().UTC().Format(time.RFC3339Nano), "42"}

	got, err := DecodeMultiFieldToken(EncodeMultiFieldToken(fields...))
	require.NoError(t, err)
	assert.Equal(t, fields, got)

	// a field containing the separator splits on decode
	got, err = DecodeMultiFieldToken(EncodeMultiFieldToken("a|b", "c"))
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
