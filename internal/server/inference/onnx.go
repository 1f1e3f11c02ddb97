package inference

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXRuntime evaluates ONNX graphs through the onnxruntime shared library.
// The library is loaded on the first Load.
type ONNXRuntime struct {
	libraryPath string

	once    sync.Once
	initErr error
}

// NewONNXRuntime uses the onnxruntime library at libraryPath, or the
// platform default when it is empty.
func NewONNXRuntime(libraryPath string) *ONNXRuntime {
	return &ONNXRuntime{libraryPath: libraryPath}
}

func (r *ONNXRuntime) init() error {
	r.once.Do(func() {
		if ort.IsInitialized() {
			return
		}
		if r.libraryPath != "" {
			ort.SetSharedLibraryPath(r.libraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			r.initErr = fmt.Errorf("init onnxruntime: %w", err)
		}
	})
	return r.initErr
}

// Load builds a session for a graph with one NHWC image input and one
// [batch, classes] output.
func (r *ONNXRuntime) Load(spec ModelSpec, artifact []byte) (Model, error) {
	if err := r.init(); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(artifact)
	if err != nil {
		return nil, fmt.Errorf("read model graph: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("model has %d inputs and %d outputs, want one of each", len(inputs), len(outputs))
	}

	shape, err := inputShapeFromDims(inputs[0].Dimensions)
	if err != nil {
		return nil, err
	}
	classes, err := classCountFromDims(outputs[0].Dimensions)
	if err != nil {
		return nil, err
	}
	if classes != len(spec.Classes) {
		return nil, fmt.Errorf("model has %d outputs, registry lists %d classes", classes, len(spec.Classes))
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(artifact,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, nil)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &onnxModel{
		session:     session,
		input:       shape,
		inputShape:  ort.NewShape(1, int64(shape.Height), int64(shape.Width), int64(shape.Channels)),
		outputShape: ort.NewShape(1, int64(classes)),
	}, nil
}

// Close releases the onnxruntime environment. Models must be closed first.
func (r *ONNXRuntime) Close() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// inputShapeFromDims accepts [batch, height, width, channels] where batch is
// dynamic or 1.
func inputShapeFromDims(dims ort.Shape) (InputShape, error) {
	if len(dims) != 4 {
		return InputShape{}, fmt.Errorf("model input has rank %d, want 4 (NHWC)", len(dims))
	}
	if dims[0] != -1 && dims[0] != 1 {
		return InputShape{}, fmt.Errorf("model input batch is %d, want 1 or dynamic", dims[0])
	}
	s := InputShape{Height: int(dims[1]), Width: int(dims[2]), Channels: int(dims[3])}
	if s.Width <= 0 || s.Height <= 0 {
		return InputShape{}, fmt.Errorf("model input size %dx%d must be fixed and positive", dims[2], dims[1])
	}
	if s.Channels != 1 && s.Channels != 3 {
		return InputShape{}, fmt.Errorf("unsupported channel count %d", s.Channels)
	}
	return s, nil
}

func classCountFromDims(dims ort.Shape) (int, error) {
	if len(dims) != 2 || (dims[0] != -1 && dims[0] != 1) || dims[1] < 2 {
		return 0, fmt.Errorf("model output shape %v, want [1, classes] with at least two classes", []int64(dims))
	}
	return int(dims[1]), nil
}

type onnxModel struct {
	session     *ort.DynamicAdvancedSession
	input       InputShape
	inputShape  ort.Shape
	outputShape ort.Shape
}

func (m *onnxModel) Input() InputShape { return m.input }

// Predict allocates its own tensors so concurrent calls share only the
// session.
func (m *onnxModel) Predict(x []float32) ([]float32, error) {
	if len(x) != m.input.Size() {
		return nil, fmt.Errorf("input has %d values, want %d", len(x), m.input.Size())
	}

	in, err := ort.NewTensor(m.inputShape, x)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](m.outputShape)
	if err != nil {
		return nil, fmt.Errorf("output tensor: %w", err)
	}
	defer out.Destroy()

	if err := m.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}

	res := make([]float32, len(out.GetData()))
	copy(res, out.GetData())
	return res, nil
}

func (m *onnxModel) Close() error {
	return m.session.Destroy()
}
