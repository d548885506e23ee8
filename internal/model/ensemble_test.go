package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/ensemble.json"

func filled(v float64) []float64 {
	row := make([]float64, FeatureCount)
	for i := range row {
		row[i] = v
	}
	return row
}

func TestLoadFixture(t *testing.T) {
	ens, err := Load(fixturePath)
	require.NoError(t, err)

	info := ens.Info()
	assert.Equal(t, FeatureCount, info.NumFeatures)
	assert.Equal(t, 3, info.NumClasses)
	assert.Equal(t, 3, info.Trees)
	assert.NotEqual(t, uuid.Nil, info.ID)
}

func TestLoadIDIsDeterministic(t *testing.T) {
	a, err := Load(fixturePath)
	require.NoError(t, err)
	b, err := Load(fixturePath)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	c, err := Parse(append(data, '\n'))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestEnsemblePredict(t *testing.T) {
	ens, err := Load(fixturePath)
	require.NoError(t, err)

	nanRow := filled(0)
	nanRow[0] = math.NaN()

	tests := []struct {
		name string
		rows [][]float64
		want []int
	}{
		{"zeros are empty", [][]float64{filled(0)}, []int{0}},
		{"ones are human", [][]float64{filled(1)}, []int{1}},
		{"twos are elephant", [][]float64{filled(2)}, []int{2}},
		{"batch keeps order", [][]float64{filled(2), filled(0), filled(1)}, []int{2, 0, 1}},
		{"nan follows default direction and ties pick lower class", [][]float64{nanRow}, []int{0}},
		{"empty batch", [][]float64{}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ens.Predict(tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsemblePredictShapeMismatch(t *testing.T) {
	ens, err := Load(fixturePath)
	require.NoError(t, err)

	_, err = ens.Predict([][]float64{filled(0), make([]float64, 10)})
	require.Error(t, err)
	assert.Equal(t, "feature shape mismatch, expected: 768, got: 10", err.Error())
}

func TestNilEnsemblePredict(t *testing.T) {
	var ens *Ensemble
	_, err := ens.Predict([][]float64{filled(0)})
	assert.EqualError(t, err, "model not loaded")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRejectsInvalidArtifacts(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `joblib-pickle`},
		{"no trees", `{"num_features": 768, "num_classes": 3, "trees": []}`},
		{"single class", `{"num_features": 768, "num_classes": 1,
			"trees": [{"class": 0, "nodes": [{"is_leaf": true}]}]}`},
		{"zero features", `{"num_features": 0, "num_classes": 3,
			"trees": [{"class": 0, "nodes": [{"is_leaf": true}]}]}`},
		{"tree without nodes", `{"num_features": 768, "num_classes": 3,
			"trees": [{"class": 0, "nodes": []}]}`},
		{"class out of range", `{"num_features": 768, "num_classes": 3,
			"trees": [{"class": 3, "nodes": [{"is_leaf": true}]}]}`},
		{"feature out of range", `{"num_features": 768, "num_classes": 3,
			"trees": [{"class": 0, "nodes": [
				{"feature_idx": 768, "left_child": 1, "right_child": 2},
				{"is_leaf": true}, {"is_leaf": true}]}]}`},
		{"child points backwards", `{"num_features": 768, "num_classes": 3,
			"trees": [{"class": 0, "nodes": [
				{"feature_idx": 0, "left_child": 0, "right_child": 1},
				{"is_leaf": true}]}]}`},
		{"child past end", `{"num_features": 768, "num_classes": 3,
			"trees": [{"class": 0, "nodes": [
				{"feature_idx": 0, "left_child": 1, "right_child": 5},
				{"is_leaf": true}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}
