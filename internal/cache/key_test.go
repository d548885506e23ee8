package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}}

	key := GenerateCacheKey("model-a", rows)
	assert.True(t, strings.HasPrefix(key, "model-a:"))
	assert.Equal(t, key, GenerateCacheKey("model-a", [][]float64{{1, 2}, {3, 4}}), "stable for equal input")

	assert.NotEqual(t, key, GenerateCacheKey("model-b", rows), "model id is part of the key")
	assert.NotEqual(t, key, GenerateCacheKey("model-a", [][]float64{{1, 2, 3, 4}}), "row boundaries are part of the key")
	assert.NotEqual(t, key, GenerateCacheKey("model-a", [][]float64{{3, 4}, {1, 2}}), "row order is part of the key")
}
