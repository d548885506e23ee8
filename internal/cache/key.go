package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// GenerateCacheKey hashes a feature matrix under a model ID. Row boundaries are
// part of the hash so a reshaped matrix never collides with the original.
func GenerateCacheKey(modelID string, rows [][]float64) string {
	h := sha256.New()
	h.Write([]byte(modelID))

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(rows)))
	h.Write(buf[:])
	for _, row := range rows {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(row)))
		h.Write(buf[:])
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return modelID + ":" + hex.EncodeToString(h.Sum(nil))
}
