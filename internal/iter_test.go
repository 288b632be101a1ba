package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeqConcat(t *testing.T) {
	assert := assert.New(t)

	seq := IterSeqConcat(slices.Values([]int{1, 2}), slices.Values([]int{}), slices.Values([]int{3}))
	assert.Equal([]int{1, 2, 3}, slices.Collect(seq))

	var first []int
	for val := range seq {
		first = append(first, val)
		if val == 2 {
			break
		}
	}
	assert.Equal([]int{1, 2}, first)

	assert.Empty(slices.Collect(IterSeqConcat[int]()))
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"A": 1, "B": 2}
	b := map[string]int{"B": 3}

	seq := IterSeq2Concat(maps.All(a), maps.All(b))
	assert.Equal(map[string]int{"A": 1, "B": 3}, maps.Collect(seq))

	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(1, count)
}
