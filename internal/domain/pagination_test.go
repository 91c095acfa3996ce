package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationInfo_FirstPageOfThree(t *testing.T) {
	p := NewPaginationInfo(25, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
	assert.Equal(t, 25, p.TotalItems)
}

func TestNewPaginationInfo_LastPageOfThree(t *testing.T) {
	p := NewPaginationInfo(25, 3, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
}

func TestNewPaginationInfo_Empty(t *testing.T) {
	p := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}

func TestNewPaginationInfo_Arithmetic(t *testing.T) {
	for total := 0; total <= 60; total++ {
		for limit := 1; limit <= 12; limit++ {
			want := total / limit
			if total%limit != 0 {
				want++
			}
			for page := 1; page <= want+1; page++ {
				p := NewPaginationInfo(total, page, limit)
				if p.TotalPages != want {
					t.Fatalf("total=%d limit=%d: totalPages=%d want %d", total, limit, p.TotalPages, want)
				}
				if p.HasNextPage != (page < want) {
					t.Fatalf("total=%d limit=%d page=%d: hasNextPage=%v", total, limit, page, p.HasNextPage)
				}
				if p.HasPrevPage != (page > 1) {
					t.Fatalf("page=%d: hasPrevPage=%v", page, p.HasPrevPage)
				}
			}
		}
	}
}

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 0, Limit: 10}.Offset())
	assert.Equal(t, math.MaxInt, PageRequest{Page: math.MaxInt, Limit: 10}.Offset())
}
