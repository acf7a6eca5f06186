package queryparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClampsRanges(t *testing.T) {
	p := ListParams{Page: -3, PerPage: 0, OrderBy: "DESC"}
	p.Validate()
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, "desc", p.OrderBy)

	p = ListParams{Page: 2, PerPage: 500, OrderBy: "sideways"}
	p.Validate()
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
	assert.Equal(t, DefaultOrderBy, p.OrderBy)

	p = ListParams{Page: 1, PerPage: 10, OrderBy: "asc"}
	p.Validate()
	assert.Equal(t, "asc", p.OrderBy)
}

func TestCalculateOffset(t *testing.T) {
	p := ListParams{Page: 1, PerPage: 20}
	assert.Equal(t, 0, p.CalculateOffset())

	p = ListParams{Page: 3, PerPage: 25}
	assert.Equal(t, 50, p.CalculateOffset())
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 20))
	assert.Equal(t, 1, CalculateTotalPages(1, 20))
	assert.Equal(t, 1, CalculateTotalPages(20, 20))
	assert.Equal(t, 2, CalculateTotalPages(21, 20))
	assert.Equal(t, 0, CalculateTotalPages(10, 0))
}

func TestDefaultListParams(t *testing.T) {
	p := DefaultListParams("created_at")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, "created_at", p.SortBy)
	assert.Equal(t, "desc", p.OrderBy)
}
