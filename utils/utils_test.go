package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain search", "plain search"},
		{"100%", `100\%`},
		{"under_score", `under\_score`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLike(tt.in), "input %q", tt.in)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(-3))
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 1, ClampPage(1))
	assert.Equal(t, 42, ClampPage(42))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 5, ClampPageSize(0))
	assert.Equal(t, 5, ClampPageSize(4))
	assert.Equal(t, 5, ClampPageSize(5))
	assert.Equal(t, 10, ClampPageSize(10))
	assert.Equal(t, 50, ClampPageSize(50))
	assert.Equal(t, 50, ClampPageSize(500))
}

func TestGenerateRateLimitKey(t *testing.T) {
	key := GenerateRateLimitKey("10.0.0.1", "User@Example.com", "/api/auth/login")
	assert.Equal(t, "rl:10.0.0.1:user@example.com:/api/auth/login", key)
}

func TestParseUint(t *testing.T) {
	assert.Equal(t, uint(12), ParseUint("12"))
	assert.Equal(t, uint(0), ParseUint("not-a-number"))
	assert.Equal(t, uint(0), ParseUint(""))
	assert.Equal(t, uint(0), ParseUint("-4"))
}
