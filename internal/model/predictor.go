package model

// FeatureCount is the width of every feature vector: a flattened pixel region.
const FeatureCount = 768

// ArtifactPath is where the serialized model is read from at startup.
const ArtifactPath = "models/xgb_model.json"

// Predictor classifies a batch of feature rows, returning one class ID per row.
type Predictor interface {
	Predict(rows [][]float64) ([]int, error)
}

// Label names a class ID.
type Label string

const (
	LabelEmpty    Label = "Empty"
	LabelHuman    Label = "Human"
	LabelElephant Label = "Elephant"
	LabelUnknown  Label = "Unknown"
)

var labels = []Label{LabelEmpty, LabelHuman, LabelElephant}

// LabelFor decodes a class ID; IDs outside the known set map to LabelUnknown.
func LabelFor(class int) Label {
	if class < 0 || class >= len(labels) {
		return LabelUnknown
	}
	return labels[class]
}

// Labels returns the known labels ordered by class ID.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}
