package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat2(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	all := maps.Collect(Concat2(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	count := 0
	for range Concat2(maps.All(a), maps.All(b)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}

func TestSorted2(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"zeta": 26, "alpha": 1, "mu": 12}

	var keys []string
	for key, val := range Sorted2(maps.All(m)) {
		keys = append(keys, key)
		assert.Equal(m[key], val)
	}
	assert.Equal([]string{"alpha", "mu", "zeta"}, keys)
}
