package utils

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatcherFlushesInChunks(t *testing.T) {
	// Arranging
	flushed := [][]int{}
	bat := NewBatcher(2, func(buf []int) error {
		flushed = append(flushed, slices.Clone(buf))
		return nil
	})

	// Acting
	assert.NoError(t, bat.AddAll(1, 2, 3))
	assert.NoError(t, bat.Add(4))
	assert.NoError(t, bat.Add(5))
	assert.NoError(t, bat.Flush())
	assert.NoError(t, bat.Flush())

	// Asserting
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, flushed)
	assert.Equal(t, 5, bat.Flushed())
}

func TestBatcherKeepsBufferWhenFlushFails(t *testing.T) {
	// Arranging
	fail := true
	flushed := []int{}
	bat := NewBatcher(10, func(buf []int) error {
		if fail {
			return errors.New("boom")
		}
		flushed = append(flushed, buf...)
		return nil
	})
	assert.NoError(t, bat.Add(1))

	// Acting
	err := bat.Flush()
	fail = false

	// Asserting
	assert.Error(t, err)
	assert.Equal(t, 0, bat.Flushed())
	assert.NoError(t, bat.Flush())
	assert.Equal(t, []int{1}, flushed)
	assert.Equal(t, 1, bat.Flushed())
}
