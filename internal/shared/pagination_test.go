package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/todo/internal/shared"
)

func TestNewPagination(t *testing.T) {
	p := shared.NewPagination(3, 10, 41)
	assert.Equal(t, shared.Pagination{Page: 3, PerPage: 10, Total: 41, TotalPages: 5}, p)
	assert.Equal(t, 20, p.Offset())
}

func TestNewPaginationClampsInput(t *testing.T) {
	p := shared.NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Zero(t, p.TotalPages)
	assert.Zero(t, p.Offset())

	assert.Equal(t, shared.MaxPerPage, shared.NewPagination(1, 1000, 5).PerPage)
}

func TestNewPaginationBoundsOffset(t *testing.T) {
	p := shared.NewPagination(1<<62, shared.MaxPerPage, 5)
	assert.Equal(t, shared.MaxPage, p.Page)
	assert.Positive(t, p.Offset())
}
