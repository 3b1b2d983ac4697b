package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/pkg/validator"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=CENTRAL SECONDARY"`
	Limit int    `query:"limit" validate:"omitempty,max=100"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, validator.ValidateStruct(sample{Email: "a@b.co"}))

	errs := validator.ValidateStruct(sample{Email: "x", Kind: "OTRA", Limit: 500})
	require.Len(t, errs, 3)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email", errs[0].Tag)
	assert.Equal(t, "kind", errs[1].Field)
	assert.Equal(t, "limit", errs[2].Field)
	assert.Equal(t, "limit: max=100", errs[2].String())
}
