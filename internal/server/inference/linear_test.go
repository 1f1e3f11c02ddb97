package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// linearModel is a JSON-encoded softmax-linear classifier used as a stand-in
// artifact so classifier tests run without the onnxruntime library.
type linearModel struct {
	Shape   InputShape  `json:"input"`
	Weights [][]float32 `json:"weights"`
	Bias    []float32   `json:"bias"`

	closed atomic.Bool
}

// twoClassModel scores brightness: bright images lean to "pneumonia",
// black images produce an exact tie.
func twoClassModel(w, h, ch int) *linearModel {
	size := w * h * ch
	pos := make([]float32, size)
	neg := make([]float32, size)
	for i := range pos {
		pos[i] = 1
		neg[i] = -1
	}
	return &linearModel{
		Shape:   InputShape{Width: w, Height: h, Channels: ch},
		Weights: [][]float32{pos, neg},
		Bias:    []float32{0, 0},
	}
}

func modelJSON(t *testing.T, m *linearModel) []byte {
	t.Helper()
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return b
}

func (m *linearModel) Input() InputShape { return m.Shape }

func (m *linearModel) Predict(x []float32) ([]float32, error) {
	if len(x) != m.Shape.Size() {
		return nil, fmt.Errorf("input has %d values, want %d", len(x), m.Shape.Size())
	}
	logits := make([]float32, len(m.Weights))
	for c, row := range m.Weights {
		sum := m.Bias[c]
		for i, w := range row {
			sum += w * x[i]
		}
		logits[c] = sum
	}
	return logits, nil
}

func (m *linearModel) Close() error {
	m.closed.Store(true)
	return nil
}

// linearRuntime decodes linearModel artifacts and remembers what it built.
type linearRuntime struct {
	built []*linearModel
}

func (r *linearRuntime) Load(spec ModelSpec, artifact []byte) (Model, error) {
	m := &linearModel{}
	if err := json.Unmarshal(artifact, m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(m.Weights) != len(spec.Classes) {
		return nil, errors.New("weights must have one row per class")
	}
	r.built = append(r.built, m)
	return m, nil
}
