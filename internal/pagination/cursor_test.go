package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2026, 8, 30, 10, 15, 0, 123456789, time.UTC)

	token := EncodeCursor("booking-42", created)
	require.NotEmpty(t, token)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, "booking-42", cursor.LastID)
	assert.True(t, cursor.Timestamp.Equal(created))
}

func TestDecodeCursor_EmptyMeansFirstPage(t *testing.T) {
	cursor, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	for _, token := range []string{"not base64!!", "bm8tc2VwYXJhdG9y", "aWR8bm90LWEtdGltZQ=="} {
		_, err := DecodeCursor(token)
		assert.ErrorIs(t, err, ErrInvalidCursor, token)
	}
}

func TestCreateNextCursor_ShortPageEndsListing(t *testing.T) {
	type row struct {
		ID      string
		Created time.Time
	}
	id := func(r row) string { return r.ID }
	ts := func(r row) time.Time { return r.Created }

	full := []row{
		{ID: "a", Created: time.Now().UTC()},
		{ID: "b", Created: time.Now().UTC()},
	}
	assert.NotEmpty(t, CreateNextCursor(full, 2, id, ts))
	assert.Empty(t, CreateNextCursor(full[:1], 2, id, ts))
	assert.Empty(t, CreateNextCursor(nil, 2, id, ts))
}
