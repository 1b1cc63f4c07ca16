package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilNodeIsInvalid(t *testing.T) {
	assert.False(t, NilNode.valid())
}

func TestNonNegativeRefIsValid(t *testing.T) {
	assert.True(t, NodeRef(0).valid())
	assert.True(t, NodeRef(5).valid())
}
