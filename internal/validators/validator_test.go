package validators

import (
	"testing"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string   `json:"name" validate:"notblank"`
	Rating int      `json:"rating" validate:"gte=1,lte=5"`
	Type   string   `json:"type" validate:"oneof=opponents teammates"`
	Coords []string `json:"coordinates" validate:"omitempty,len=2"`
}

func TestValidateReportsFirstViolation(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Name: "  ", Rating: 9, Type: "x"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "name is required", err.(*apperrors.Error).Message)

	err = v.Validate(sample{Name: "a", Rating: 9, Type: "opponents"})
	require.Error(t, err)
	assert.Equal(t, "rating must be less than or equal to 5", err.(*apperrors.Error).Message)

	err = v.Validate(sample{Name: "a", Rating: 3, Type: "duo"})
	require.Error(t, err)
	assert.Equal(t, "type must be one of: opponents, teammates", err.(*apperrors.Error).Message)

	err = v.Validate(sample{Name: "a", Rating: 3, Type: "teammates", Coords: []string{"1"}})
	require.Error(t, err)
	assert.Equal(t, "coordinates must contain exactly 2 items", err.(*apperrors.Error).Message)

	assert.NoError(t, v.Validate(sample{Name: "a", Rating: 3, Type: "teammates"}))
}
