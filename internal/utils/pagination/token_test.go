package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard date/time values
	c := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "4f1c2a",
	}

	token := EncodeToken(c)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.True(t, c.Date.Equal(decoded.Date), "Date should match after decode")
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt), "Created at time should match after decode")
	assert.Equal(t, c.ID, decoded.ID)

	// Zero time values
	zero, err := DecodeToken(EncodeToken(Cursor{}))
	require.NoError(t, err, "Decoding zero time should not return an error")
	assert.True(t, zero.Date.IsZero())
	assert.Empty(t, zero.ID)

	// Non-UTC offsets survive the round trip
	loc := time.FixedZone("UZT", 5*3600)
	now := time.Now().In(loc)
	decodedNow, err := DecodeToken(EncodeToken(Cursor{Date: now, CreatedAt: now, ID: "x"}))
	require.NoError(t, err)
	assert.True(t, now.Equal(decodedNow.Date), "Current date should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45Z|id")))
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "date parse")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T14:30:45Z|later|id")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestCursorBefore(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	c := Cursor{Date: day, CreatedAt: day.Add(time.Hour), ID: "m"}

	assert.True(t, c.Before(day.AddDate(0, 0, -1), day, "z"), "older date")
	assert.False(t, c.Before(day.AddDate(0, 0, 1), day, "a"), "newer date")
	assert.True(t, c.Before(day, day, "z"), "same date, created earlier")
	assert.True(t, c.Before(day, day.Add(time.Hour), "a"), "full tie broken by id")
	assert.False(t, c.Before(day, day.Add(time.Hour), "m"), "the cursor item itself")
}
