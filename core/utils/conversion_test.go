package utils_test

import (
	"testing"

	"scale-sync/core/utils"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 1, utils.ToInt("1"))
	assert.Equal(t, 1, utils.ToInt(" 1 "))
	assert.Equal(t, 7, utils.ToInt(7))
	assert.Equal(t, 7, utils.ToInt(7.9))
	assert.Equal(t, 0, utils.ToInt("not a number"))
	assert.Equal(t, 42, utils.ToInt([]byte("42")))
}

func TestToInt64(t *testing.T) {
	// Unix timestamps survive the round trip
	assert.Equal(t, int64(1735689600), utils.ToInt64("1735689600"))
	assert.Equal(t, int64(5), utils.ToInt64(5))
	assert.Equal(t, int64(0), utils.ToInt64(""))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "abc", utils.ToString("abc"))
	assert.Equal(t, "abc", utils.ToString([]byte("abc")))
	assert.Equal(t, "12", utils.ToString(12))
}
