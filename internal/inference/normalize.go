package inference

import (
	"fmt"
	"strconv"
	"strings"

	"elephant-gateway/internal/model"
)

// Normalize turns a decoded JSON value into a Rows×768 matrix.
//
// A payload whose first element is an array is a batch; every row must hold
// exactly model.FeatureCount entries, each a number, boolean or numeric string.
// Otherwise the payload must itself be a single vector of model.FeatureCount
// numbers (or booleans) and becomes a batch of one.
func Normalize(payload any) ([][]float64, error) {
	items, ok := payload.([]any)
	if !ok {
		return nil, badInput(StepShape, msgNotArray, nil)
	}
	if len(items) == 0 {
		return nil, badInput(StepShape, msgEmpty, nil)
	}

	if _, isBatch := items[0].([]any); isBatch {
		return normalizeBatch(items)
	}

	if len(items) != model.FeatureCount {
		return nil, badInput(StepShape, msgWrongShape, nil)
	}
	row := make([]float64, len(items))
	for i, v := range items {
		f, ok := strictNumber(v)
		if !ok {
			return nil, badInput(StepShape, msgWrongShape, nil)
		}
		row[i] = f
	}
	return [][]float64{row}, nil
}

func normalizeBatch(items []any) ([][]float64, error) {
	rows := make([][]float64, len(items))
	for i, item := range items {
		values, ok := item.([]any)
		if !ok {
			return nil, badInput(StepShape, msgWrongShape, nil)
		}
		if len(values) != model.FeatureCount {
			return nil, badInput(StepShape, fmt.Sprintf(
				"Each sample must contain exactly %d pixel values. Received %d.", model.FeatureCount, len(values)), nil)
		}
		row := make([]float64, len(values))
		for j, v := range values {
			f, err := coerce(v)
			if err != nil {
				return nil, badInput(StepCoerce, err.Error(), err)
			}
			row[j] = f
		}
		rows[i] = row
	}
	return rows, nil
}

func strictNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case bool:
		return boolFloat(n), true
	default:
		return 0, false
	}
}

// coerce accepts anything float() would: numbers, booleans and numeric strings.
func coerce(v any) (float64, error) {
	if f, ok := strictNumber(v); ok {
		return f, nil
	}
	switch s := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert string to float: %q", s)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("could not convert null to float")
	default:
		return 0, fmt.Errorf("could not convert %T to float", v)
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
