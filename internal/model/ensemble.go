package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Node is one entry of a tree's flat node list. Children always sit after their parent.
type Node struct {
	FeatureIdx  int     `json:"feature_idx"`
	Threshold   float64 `json:"threshold"`
	LeftChild   int     `json:"left_child"`
	RightChild  int     `json:"right_child"`
	DefaultLeft bool    `json:"default_left"` // direction taken for NaN features
	Leaf        float64 `json:"leaf"`
	IsLeaf      bool    `json:"is_leaf"`
}

// Tree contributes its leaf value to the score of Class.
type Tree struct {
	Class int    `json:"class" validate:"gte=0"`
	Nodes []Node `json:"nodes" validate:"required,min=1"`
}

// Artifact is the on-disk form of a boosted tree ensemble.
type Artifact struct {
	NumFeatures int     `json:"num_features" validate:"required,gt=0"`
	NumClasses  int     `json:"num_classes" validate:"required,gte=2"`
	BaseScore   float64 `json:"base_score"`
	Trees       []Tree  `json:"trees" validate:"required,min=1,dive"`
}

// Info describes a loaded ensemble.
type Info struct {
	ID          uuid.UUID `json:"model_id"`
	NumFeatures int       `json:"num_features"`
	NumClasses  int       `json:"num_classes"`
	Trees       int       `json:"trees"`
}

// Ensemble is an immutable, validated tree ensemble. Safe for concurrent use.
type Ensemble struct {
	ID       uuid.UUID
	artifact Artifact
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the artifact at path.
func Load(path string) (*Ensemble, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return Parse(data)
}

// Parse decodes an artifact. The ensemble ID is a UUIDv5 of the raw bytes, so
// identical artifacts always share an ID.
func Parse(data []byte) (*Ensemble, error) {
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if err := validate.Struct(art); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	if err := checkTrees(art); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &Ensemble{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, data),
		artifact: art,
	}, nil
}

func checkTrees(art Artifact) error {
	for t, tree := range art.Trees {
		if tree.Class >= art.NumClasses {
			return fmt.Errorf("tree %d: class %d out of range [0,%d)", t, tree.Class, art.NumClasses)
		}
		for i, n := range tree.Nodes {
			if n.IsLeaf {
				continue
			}
			if n.FeatureIdx < 0 || n.FeatureIdx >= art.NumFeatures {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", t, i, n.FeatureIdx)
			}
			for _, child := range []int{n.LeftChild, n.RightChild} {
				if child <= i || child >= len(tree.Nodes) {
					return fmt.Errorf("tree %d node %d: invalid child %d", t, i, child)
				}
			}
		}
	}
	return nil
}

// Predict returns the arg-max class for each row. Ties resolve to the lower class ID.
func (e *Ensemble) Predict(rows [][]float64) ([]int, error) {
	if e == nil {
		return nil, errors.New("model not loaded")
	}
	out := make([]int, len(rows))
	scores := make([]float64, e.artifact.NumClasses)
	for r, row := range rows {
		if len(row) != e.artifact.NumFeatures {
			return nil, fmt.Errorf("feature shape mismatch, expected: %d, got: %d", e.artifact.NumFeatures, len(row))
		}
		for c := range scores {
			scores[c] = e.artifact.BaseScore
		}
		for _, tree := range e.artifact.Trees {
			scores[tree.Class] += tree.leaf(row)
		}
		out[r] = argmax(scores)
	}
	return out, nil
}

// Info summarises the ensemble.
func (e *Ensemble) Info() Info {
	return Info{
		ID:          e.ID,
		NumFeatures: e.artifact.NumFeatures,
		NumClasses:  e.artifact.NumClasses,
		Trees:       len(e.artifact.Trees),
	}
}

func (t Tree) leaf(row []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.IsLeaf {
			return n.Leaf
		}
		v := row[n.FeatureIdx]
		switch {
		case math.IsNaN(v):
			if n.DefaultLeft {
				i = n.LeftChild
			} else {
				i = n.RightChild
			}
		case v < n.Threshold:
			i = n.LeftChild
		default:
			i = n.RightChild
		}
	}
}

func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
