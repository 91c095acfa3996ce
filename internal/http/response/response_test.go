package response

import (
	"encoding/json"
	"testing"
	"time"

	"dashboard-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int
	Name string
}

type itemDTO struct {
	Label string `json:"label"`
}

var fixed = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newItemTransformer() *Transformer[item, itemDTO] {
	return NewTransformer("/api/items", func(i item) itemDTO {
		return itemDTO{Label: i.Name}
	}).WithClock(func() time.Time { return fixed })
}

func TestToResponse(t *testing.T) {
	resp := newItemTransformer().ToResponse(item{ID: 1, Name: "one"})

	assert.True(t, resp.Success)
	assert.Equal(t, MsgOK, resp.Message)
	assert.Equal(t, itemDTO{Label: "one"}, resp.Data)
	assert.Nil(t, resp.Pagination)
	assert.Equal(t, "2025-06-01T12:00:00Z", resp.Timestamp)
	assert.Equal(t, "/api/items", resp.Path)
}

func TestToPaginatedResponse_KeepsOrderAndPagination(t *testing.T) {
	p := domain.NewPaginationInfo(25, 3, 10)
	resp := newItemTransformer().ToPaginatedResponse([]item{{3, "c"}, {1, "a"}, {2, "b"}}, p)

	assert.Equal(t, MsgRetrieved, resp.Message)
	assert.Equal(t, []itemDTO{{"c"}, {"a"}, {"b"}}, resp.Data)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, p, *resp.Pagination)
}

func TestToPaginatedResponse_EmptyPageEncodesEmptyArray(t *testing.T) {
	resp := newItemTransformer().ToPaginatedResponse(nil, domain.NewPaginationInfo(0, 1, 10))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":[]`)
	assert.Contains(t, string(raw), `"totalPages":0`)
}

func TestWithClockDoesNotMutateOriginal(t *testing.T) {
	base := NewTransformer("/x", func(i item) itemDTO { return itemDTO{} })
	_ = base.WithClock(func() time.Time { return fixed })
	assert.NotEqual(t, Timestamp(fixed), base.ToResponse(item{}).Timestamp)
}

func TestNewTransformerRejectsNilTransform(t *testing.T) {
	assert.Panics(t, func() { NewTransformer[item, itemDTO]("/x", nil) })
}
