package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "a"))
	assert.False(t, ContainsString([]string{}, "a"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
}

func TestRemoveString(t *testing.T) {
	assert.Equal(t, []string{"b"}, RemoveString([]string{"a", "b"}, "a"))
	assert.Equal(t, []string{"a", "b"}, RemoveString([]string{"a", "b"}, "c"))
	assert.Equal(t, []string{}, RemoveString([]string{}, "a"))
}

func TestRandomAlphabetString(t *testing.T) {
	assert.Len(t, RandomAlphabetString(8), 8)
	assert.NotEqual(t, RandomAlphabetString(16), RandomAlphabetString(16))
}
