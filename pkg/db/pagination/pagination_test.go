package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitClamping(t *testing.T) {
	assert.Equal(t, 50, Pagination{}.Limit())
	assert.Equal(t, 50, Pagination{PageSize: -1}.Limit())
	assert.Equal(t, 1, Pagination{PageSize: 1}.Limit())
	assert.Equal(t, 250, Pagination{PageSize: 250}.Limit())
	assert.Equal(t, 250, Pagination{PageSize: 9999}.Limit())
}

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2026-03-01T10:00:00Z"})
	require.NoError(t, err)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "42", cursor.ID)
	assert.Equal(t, "2026-03-01T10:00:00Z", cursor.CreatedAt)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not base64!!!")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	// Valid base64 but not JSON.
	_, err = DecodeCursor("bm90IGpzb24=")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

type row struct{ id string }

func TestBuildCursorPageInfo(t *testing.T) {
	extract := func(r *row) string { return r.id }

	info, data := BuildCursorPageInfo([]*row{}, 2, extract)
	assert.False(t, info.HasMore)
	assert.Empty(t, data)

	rows := []*row{{"a"}, {"b"}, {"c"}}
	info, data = BuildCursorPageInfo(rows, 2, extract)
	assert.True(t, info.HasMore)
	require.Len(t, data, 2)
	assert.Equal(t, "b", info.NextPageToken)

	info, data = BuildCursorPageInfo([]*row{{"a"}}, 2, extract)
	assert.False(t, info.HasMore)
	require.Len(t, data, 1)
	assert.Equal(t, "a", info.NextPageToken)
}
