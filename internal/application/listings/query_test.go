package listings

import (
	"context"
	"fmt"
	"math"
	"testing"

	"bitebuddy-backend/internal/domain"
	"bitebuddy-backend/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedListings(t *testing.T, s *Service, n int, build func(i int, in *ListingInput)) []*domain.Listing {
	out := make([]*domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		in := riceInput()
		in.FoodName = fmt.Sprintf("Meal %02d", i)
		if build != nil {
			build(i, &in)
		}
		l, err := s.Create(context.Background(), alice, in)
		require.NoError(t, err)
		out = append(out, l)
	}
	return out
}

func TestQuery_Pagination(t *testing.T) {
	s, _ := setupListingsService(t)
	ctx := context.Background()
	seeded := seedListings(t, s, 25, nil)

	items, meta, err := s.Query(ctx, ListingQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(25), meta.TotalItems)
	assert.False(t, meta.HasPrevPage)
	assert.True(t, meta.HasNextPage)
	assert.Equal(t, seeded[0].ID, items[0].ID)

	items, meta, err = s.Query(ctx, ListingQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.False(t, meta.HasNextPage)
	assert.Equal(t, seeded[24].ID, items[4].ID)

	items, meta, err = s.Query(ctx, ListingQuery{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 4, meta.CurrentPage)

	items, meta, err = s.Query(ctx, ListingQuery{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 12, meta.ItemsPerPage)
	assert.Len(t, items, 12)
}

func TestQuery_Search(t *testing.T) {
	s, _ := setupListingsService(t)
	ctx := context.Background()
	names := []string{"Chicken Biryani", "Vegetable Soup", "Fried Rice", "100% Juice"}
	seedListings(t, s, len(names), func(i int, in *ListingInput) {
		in.FoodName = names[i]
		if i == 1 {
			in.Location = "Rice Market Road"
		}
	})

	items, meta, err := s.Query(ctx, ListingQuery{Search: "rICe"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.TotalItems)
	require.Len(t, items, 2)
	assert.Equal(t, "Vegetable Soup", items[0].FoodName)
	assert.Equal(t, "Fried Rice", items[1].FoodName)

	items, _, err = s.Query(ctx, ListingQuery{Search: "%"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "100% Juice", items[0].FoodName)

	items, _, err = s.Query(ctx, ListingQuery{Search: "   "})
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestQuery_SortByQuantity(t *testing.T) {
	s, _ := setupListingsService(t)
	ctx := context.Background()
	qty := []int{3, 7, 3, 1}
	seeded := seedListings(t, s, len(qty), func(i int, in *ListingInput) { in.Quantity = qty[i] })

	items, _, err := s.Query(ctx, ListingQuery{SortBy: "quantity", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, seeded[1].ID, items[0].ID)
	assert.Equal(t, seeded[0].ID, items[1].ID)
	assert.Equal(t, seeded[2].ID, items[2].ID)
	assert.Equal(t, seeded[3].ID, items[3].ID)

	items, _, err = s.Query(ctx, ListingQuery{SortBy: "quantity", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, seeded[3].ID, items[0].ID)
	assert.Equal(t, seeded[0].ID, items[1].ID)
	assert.Equal(t, seeded[2].ID, items[2].ID)

	_, _, err = s.Query(ctx, ListingQuery{SortBy: "price"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, _, err = s.Query(ctx, ListingQuery{SortBy: "quantity", SortOrder: "up"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, _, err = s.Query(ctx, ListingQuery{Limit: -5})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListByOwner(t *testing.T) {
	s, _ := setupListingsService(t)
	ctx := context.Background()
	seedListings(t, s, 3, nil)
	_, err := s.Create(ctx, bob, riceInput())
	require.NoError(t, err)

	items, meta, err := s.ListByOwner(ctx, bob.Email, 1, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), meta.TotalItems)

	items, meta, err = s.ListByOwner(ctx, alice.Email, 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestQuery_HugePageIsEmpty(t *testing.T) {
	s, _ := setupListingsService(t)
	seedListings(t, s, 3, nil)

	items, meta, err := s.Query(context.Background(), ListingQuery{Page: math.MaxInt64/10 + 2, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, int64(3), meta.TotalItems)
	assert.False(t, meta.HasNextPage)
}
