package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret!"))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestNullIfBlank(t *testing.T) {
	blank := "   "
	value := "  note "

	assert.Nil(t, NullIfBlank(nil))
	assert.Nil(t, NullIfBlank(&blank))
	require.NotNil(t, NullIfBlank(&value))
	assert.Equal(t, "note", *NullIfBlank(&value))
}

func TestParsePositiveID(t *testing.T) {
	id, err := ParsePositiveID("17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	_, err = ParsePositiveID("0")
	assert.Error(t, err)
	_, err = ParsePositiveID("abc")
	assert.Error(t, err)
}
