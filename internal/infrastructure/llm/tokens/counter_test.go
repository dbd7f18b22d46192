package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Count(t *testing.T) {
	c := NewCounter("gpt-4")

	assert.Equal(t, 0, c.Count(""))
	short := c.Count("hello")
	long := c.Count(strings.Repeat("hello world ", 200))
	assert.Greater(t, short, 0)
	assert.Greater(t, long, short)
}

func TestCounter_Budget(t *testing.T) {
	c := NewCounter("gpt-4")
	size := c.ContextSize()

	assert.Greater(t, size, 0)
	assert.Equal(t, size, c.Budget(0))
	assert.Equal(t, 128000, c.Budget(128000))
}
