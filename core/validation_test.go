package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole(RoleHuman))
	assert.NoError(t, ValidateRole(RoleAssistant))

	err := ValidateRole(Role("system"))
	assert.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestValidateTurn(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateTurn(&Turn{Role: RoleHuman, Contents: "hi"}))
	})

	t.Run("nil turn", func(t *testing.T) {
		assert.Error(t, ValidateTurn(nil))
	})

	t.Run("empty contents", func(t *testing.T) {
		assert.Error(t, ValidateTurn(&Turn{Role: RoleHuman}))
	})

	t.Run("bad role", func(t *testing.T) {
		assert.Error(t, ValidateTurn(&Turn{Role: "robot", Contents: "hi"}))
	})
}

func TestValidateTopK(t *testing.T) {
	assert.NoError(t, ValidateTopK(1, 10))
	assert.NoError(t, ValidateTopK(10, 10))
	assert.Error(t, ValidateTopK(0, 10))
	assert.Error(t, ValidateTopK(11, 10))
	assert.Equal(t, CodeValidation, CodeOf(ValidateTopK(-1, 10)))
}
