// Package inference loads the x-ray classification models once at startup
// and evaluates them against uploaded images.
package inference

// ModelSpec names a model artifact inside the model repository and how to
// read its output.
type ModelSpec struct {
	Key      string
	Filename string
	// Classes labels the model output, one entry per output value.
	Classes []string
	// Scale multiplies every 0..255 pixel value before inference.
	Scale float64
	// Disabled entries are known but never fetched or served.
	Disabled bool
}

// Registry is the fixed set of models the portal knows about.
type Registry []ModelSpec

const GeneralModel = "general"

var xrayClasses = []string{"pneumonia", "normal"}

func DefaultRegistry() Registry {
	return Registry{
		{Key: GeneralModel, Filename: "Xray/modelAI-Jere-v1.onnx", Classes: xrayClasses, Scale: 1.0 / 255},
		{Key: "neumonia", Filename: "Xray/modelo_vgg16_finetuned_neumonia.onnx", Classes: xrayClasses, Scale: 1.0 / 255},
		{Key: "covid", Filename: "Xray/modelo_vgg16_finetuned_covid.onnx", Classes: xrayClasses, Scale: 1.0 / 255, Disabled: true},
		{Key: "tuberculosis", Filename: "Xray/modelo_vgg16_finetuned_tuberculosis.onnx", Classes: xrayClasses, Scale: 1.0 / 255, Disabled: true},
	}
}

// Enabled returns the entries that should be loaded.
func (r Registry) Enabled() []ModelSpec {
	out := make([]ModelSpec, 0, len(r))
	for _, s := range r {
		if !s.Disabled {
			out = append(out, s)
		}
	}
	return out
}
