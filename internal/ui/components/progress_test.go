package components

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestQueueBar(t *testing.T) {
	v := QueueBar{Retired: 3, Total: 10, Width: 30}.View()
	assert.Contains(t, v, "3/10")
	assert.Equal(t, 30, lipgloss.Width(v))

	narrow := QueueBar{Retired: 0, Total: 0, Width: 2}.View()
	assert.Contains(t, narrow, "0/0")
	assert.Equal(t, 4+len("  0/0"), lipgloss.Width(narrow))
}
