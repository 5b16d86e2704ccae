package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateSecret(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).Validate(), errMissingSecret)
	assert.ErrorIs(t, (&Config{JWTSecret: "short"}).Validate(), errShortSecret)
	assert.NoError(t, (&Config{JWTSecret: "0123456789abcdef0123456789abcdef"}).Validate())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("GUDANG_TEST_INT", "25")
	t.Setenv("GUDANG_TEST_BAD_INT", "abc")
	t.Setenv("GUDANG_TEST_DUR", "90s")

	assert.Equal(t, 25, getInt("GUDANG_TEST_INT", 3))
	assert.Equal(t, 3, getInt("GUDANG_TEST_BAD_INT", 3))
	assert.Equal(t, 3, getInt("GUDANG_TEST_MISSING", 3))
	assert.Equal(t, 90*time.Second, getDuration("GUDANG_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, getDuration("GUDANG_TEST_MISSING", time.Minute))
	assert.Equal(t, "x", getEnv("GUDANG_TEST_MISSING", "x"))
}
