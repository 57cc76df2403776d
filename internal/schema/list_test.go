package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQuery(t *testing.T) {
	t.Run("all absent", func(t *testing.T) {
		q, err := ParseListQuery(ListInput{})
		require.NoError(t, err)
		assert.True(t, q.IsZero())
	})

	t.Run("all present", func(t *testing.T) {
		q, err := ParseListQuery(ListInput{
			Page:      intPtr(2),
			PerPage:   intPtr(10),
			Order:     strPtr("name"),
			Direction: strPtr("desc"),
		})
		require.NoError(t, err)
		assert.False(t, q.IsZero())
		assert.Equal(t, 2, *q.Page)
		assert.Equal(t, 10, *q.PerPage)
		assert.Equal(t, "name", *q.Order)
		assert.Equal(t, DirectionDesc, *q.Direction)
	})

	t.Run("page bounds", func(t *testing.T) {
		_, err := ParseListQuery(ListInput{Page: intPtr(0)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page")
	})

	t.Run("per_page bounds", func(t *testing.T) {
		for _, v := range []int{0, MaxPerPage + 1} {
			_, err := ParseListQuery(ListInput{PerPage: intPtr(v)})
			require.Error(t, err, "per_page %d", v)
			assert.Contains(t, err.Error(), "per_page")
		}

		q, err := ParseListQuery(ListInput{PerPage: intPtr(MaxPerPage)})
		require.NoError(t, err)
		assert.Equal(t, MaxPerPage, *q.PerPage)
	})

	t.Run("direction enum", func(t *testing.T) {
		_, err := ParseListQuery(ListInput{Direction: strPtr("descending")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "direction")
	})

	t.Run("empty order normalized to absent", func(t *testing.T) {
		q, err := ParseListQuery(ListInput{Order: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, q.Order)
		assert.True(t, q.IsZero())
	})
}
