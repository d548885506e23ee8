package model

import "github.com/stretchr/testify/mock"

// MockPredictor is a mock implementation of Predictor using testify/mock.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(rows [][]float64) ([]int, error) {
	args := m.Called(rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
