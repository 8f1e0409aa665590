package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("MEMBERREG_PORT", "9090")
	t.Setenv("MEMBERREG_MIGRATE", "false")
	t.Setenv("MEMBERREG_TTL", "90s")
	t.Setenv("MEMBERREG_ORIGINS", "http://localhost:3000, ,https://members.example.org")

	assert.Equal(t, 9090, GetInt("MEMBERREG_PORT", 4444))
	assert.False(t, GetBool("MEMBERREG_MIGRATE", true))
	assert.Equal(t, 90*time.Second, GetDuration("MEMBERREG_TTL", time.Minute))
	assert.Equal(t, []string{"http://localhost:3000", "https://members.example.org"}, GetList("MEMBERREG_ORIGINS", nil))

	assert.Equal(t, "fallback", GetString("MEMBERREG_UNSET", "fallback"))
	assert.Equal(t, 4444, GetInt("MEMBERREG_UNSET", 4444))
}

func TestGetIntPanicsOnGarbage(t *testing.T) {
	t.Setenv("MEMBERREG_PORT", "not-a-number")

	assert.Panics(t, func() { GetInt("MEMBERREG_PORT", 4444) })
}
