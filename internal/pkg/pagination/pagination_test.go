package pagination

import (
	"math"
	"testing"

	"bitebuddy-backend/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta_TwentyFiveByTen(t *testing.T) {
	p1, err := Normalize(1, 10, DefaultOrderLimit)
	require.NoError(t, err)
	m := NewMeta(p1, 25)
	assert.Equal(t, 3, m.TotalPages)
	assert.False(t, m.HasPrevPage)
	assert.True(t, m.HasNextPage)

	m3 := NewMeta(Page{Page: 3, Limit: 10}, 25)
	assert.True(t, m3.HasPrevPage)
	assert.False(t, m3.HasNextPage)

	m4 := NewMeta(Page{Page: 4, Limit: 10}, 25)
	assert.Equal(t, 3, m4.TotalPages)
	assert.Equal(t, int64(25), m4.TotalItems)
	assert.False(t, m4.HasNextPage)
}

func TestNewMeta_Empty(t *testing.T) {
	m := NewMeta(Page{Page: 1, Limit: 12}, 0)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNextPage)
	assert.False(t, m.HasPrevPage)
}

func TestNormalize(t *testing.T) {
	p, err := Normalize(-3, 0, DefaultListingLimit)
	require.NoError(t, err)
	assert.Equal(t, Page{Page: 1, Limit: 12}, p)
	assert.Equal(t, 0, p.Offset())

	p, err = Normalize(3, 10, DefaultOrderLimit)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Offset())

	_, err = Normalize(1, -1, DefaultOrderLimit)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = Normalize(1, MaxLimit+1, DefaultOrderLimit)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPastEnd(t *testing.T) {
	assert.False(t, Page{Page: 3, Limit: 10}.PastEnd(25))
	assert.True(t, Page{Page: 4, Limit: 10}.PastEnd(25))
	assert.True(t, Page{Page: 1, Limit: 10}.PastEnd(0))
	assert.False(t, Page{Page: 1, Limit: 10}.PastEnd(1))

	// The offset of this page wraps negative; the page comparison must not.
	huge := Page{Page: math.MaxInt64/10 + 2, Limit: 10}
	assert.True(t, huge.PastEnd(3))
	assert.False(t, NewMeta(huge, 3).HasNextPage)
}
