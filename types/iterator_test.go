package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceIterator(t *testing.T) {
	it := SliceIterator([]string{"a", "b"})
	assert.Equal(t, 2, it.Len())

	v, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	v, ok = it.Next()
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestSliceIteratorEmpty(t *testing.T) {
	it := SliceIterator[int](nil)
	assert.Equal(t, 0, it.Len())
	_, ok := it.Next()
	assert.False(t, ok)
}
