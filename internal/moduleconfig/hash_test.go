package moduleconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashGateDetectsFirstSeenAndChange(t *testing.T) {
	g := NewHashGate()

	assert.True(t, g.Changed("policy.kdl", []byte("a")), "first sighting is always a change")
	assert.False(t, g.Changed("policy.kdl", []byte("a")), "identical content is not a change")
	assert.True(t, g.Changed("policy.kdl", []byte("b")), "different content is a change")
}

func TestContentHashIsDeterministic(t *testing.T) {
	assert.Equal(t, ContentHash([]byte("hello")), ContentHash([]byte("hello")))
	assert.NotEqual(t, ContentHash([]byte("hello")), ContentHash([]byte("world")))
}
