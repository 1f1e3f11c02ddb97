package inference

import (
	"math"
)

// InputShape is the image size a model expects. Channels is 1 (grayscale)
// or 3 (RGB).
type InputShape struct {
	Width    int
	Height   int
	Channels int
}

func (s InputShape) Size() int {
	return s.Width * s.Height * s.Channels
}

// Runtime turns a serialized model artifact into something that can be
// evaluated.
type Runtime interface {
	Load(spec ModelSpec, artifact []byte) (Model, error)
}

// Model evaluates a single channel-last image. Predict must be safe for
// concurrent use.
type Model interface {
	Input() InputShape
	Predict(x []float32) ([]float32, error)
	Close() error
}

// probabilities returns out as float64. Outputs that already form a
// distribution are kept, anything else is treated as logits.
func probabilities(out []float32) []float64 {
	probs := make([]float64, len(out))
	var total float64
	distribution := true
	for i, v := range out {
		probs[i] = float64(v)
		total += probs[i]
		if probs[i] < 0 || probs[i] > 1 || math.IsNaN(probs[i]) {
			distribution = false
		}
	}
	if distribution && math.Abs(total-1) < 1e-3 {
		return probs
	}
	return softmax(probs)
}

func softmax(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, v := range logits {
		maxLogit = math.Max(maxLogit, v)
	}

	out := make([]float64, len(logits))
	var total float64
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
