package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
)

func TestHashAndVerifyPin(t *testing.T) {
	hash, err := HashPin("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	require.NoError(t, VerifyPin("123456", hash))
	require.ErrorIs(t, VerifyPin("654321", hash), domain.ErrInvalidCredential)
}

func TestHashPinSaltsEachHash(t *testing.T) {
	first, err := HashPin("123456")
	require.NoError(t, err)
	second, err := HashPin("123456")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidPinFormat(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"12 456", false},
		{"", false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ValidPinFormat(c.value), "value %q", c.value)
	}
}
