package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardNilAllowsEverything(t *testing.T) {
	var g *Guard
	assert.NoError(t, g.Check([]string{"rm", "-rf", "/tmp/x"}))
}

func TestGuardDenyWinsOverAllow(t *testing.T) {
	g := &Guard{
		Allowed:    []string{"*"},
		Disallowed: []string{"rm"},
	}
	assert.Error(t, g.Check([]string{"rm", "-rf", "x"}))
	assert.NoError(t, g.Check([]string{"ls"}))
}

func TestGuardAllowList(t *testing.T) {
	g := &Guard{Allowed: []string{"echo", "git*"}}

	assert.NoError(t, g.Check([]string{"echo", "hi"}))
	assert.NoError(t, g.Check([]string{"git", "status"}))
	err := g.Check([]string{"curl", "http://example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGuardSkipsEnvAssignments(t *testing.T) {
	g := &Guard{Allowed: []string{"make"}}
	assert.NoError(t, g.Check([]string{"FOO=bar", "make", "test"}))
}

func TestGuardStripsPathPrefix(t *testing.T) {
	g := &Guard{Disallowed: []string{"sudo"}}
	assert.Error(t, g.Check([]string{"/usr/bin/sudo", "reboot"}))
}

func TestBaseCommand(t *testing.T) {
	tests := []struct {
		name    string
		command []string
		want    string
	}{
		{"plain", []string{"echo", "hi"}, "echo"},
		{"with path", []string{"/bin/echo", "hi"}, "echo"},
		{"env prefix", []string{"A=1", "B=2", "go", "test"}, "go"},
		{"only assignments", []string{"A=1"}, "A=1"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, baseCommand(tt.command))
		})
	}
}
