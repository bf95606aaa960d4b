package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	n := New(LevelWarning, "range %s overlaps %d mapping(s)", "A1:B2", 2)
	assert.Equal(t, LevelWarning, n.Level)
	assert.Equal(t, "range A1:B2 overlaps 2 mapping(s)", n.Message)
	assert.False(t, n.CreatedAt.IsZero())

	plain := New(LevelInfo, "100% loaded")
	assert.Equal(t, "100% loaded", plain.Message)
}
