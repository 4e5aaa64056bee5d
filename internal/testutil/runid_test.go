package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/holical/internal/engine"
)

var _ engine.RunIDGenerator = (*ConstantRunID)(nil)

func TestConstantRunID(t *testing.T) {
	gen := NewConstantRunID("run-2024")
	for i := 0; i < 3; i++ {
		assert.Equal(t, "run-2024", gen.Generate())
	}
}

func TestConstantRunID_Default(t *testing.T) {
	assert.Equal(t, "test-run", NewConstantRunID("").Generate())
}
