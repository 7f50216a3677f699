package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestClosestMatch(t *testing.T) {
	candidates := []string{"size", "owner", "group", "path"}
	name, ok := Suggest(candidates, "pth")
	assert.True(t, ok)
	assert.Equal(t, "path", name)
}

func TestSuggestNoCloseMatch(t *testing.T) {
	candidates := []string{"size", "owner"}
	_, ok := Suggest(candidates, "xyzzyplugh")
	assert.False(t, ok)
}

func TestHintFormatting(t *testing.T) {
	hint := Hint([]string{"path"}, "pth")
	assert.Contains(t, hint, "did you mean 'path'?")
}
