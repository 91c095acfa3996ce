package validation

import (
	"context"
	"errors"
	"testing"

	"dashboard-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDTO struct {
	Name string  `json:"name" validate:"required,max=5"`
	Code string  `json:"code" validate:"required,alphanum"`
	Note *string `json:"note" validate:"omitempty,max=3"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	require.NoError(t, v.Validate(context.Background(), sampleDTO{Name: "acme", Code: "A1"}))
}

func TestValidate_ListsEveryField(t *testing.T) {
	v := New()
	long := "toolong"
	err := v.Validate(context.Background(), &sampleDTO{Name: "waytoolong", Note: &long})

	var verr domain.ValidationError
	require.True(t, errors.As(err, &verr))
	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Rule
	}
	assert.Equal(t, map[string]string{"name": "max", "code": "required", "note": "max"}, got)
}

func TestValidate_NilAndNonStruct(t *testing.T) {
	v := New()
	assert.True(t, domain.IsValidation(v.Validate(context.Background(), nil)))

	var p *sampleDTO
	assert.True(t, domain.IsValidation(v.Validate(context.Background(), p)))
	assert.True(t, domain.IsValidation(v.Validate(context.Background(), map[string]any{"a": 1})))
}
