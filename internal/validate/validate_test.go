package validate

import (
	"errors"
	"testing"

	"gudang-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ProductID string `validate:"required"`
	Quantity  int    `validate:"gt=0"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{ProductID: "p", Quantity: 1}, "x"))

	err := Struct(sample{ProductID: "p", Quantity: 0}, "Jumlah harus lebih dari 0")
	require.Error(t, err)

	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, "Jumlah harus lebih dari 0", ae.Message)
	assert.Contains(t, ae.Err.Error(), "Quantity:gt")
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("a@b.id", "required,email", "x"))
	assert.Error(t, Var("nope", "required,email", "Email tidak valid"))
}
