package types

import "fmt"

// Tensor is a dense float32 array in [batch, channel, height, width] layout.
type Tensor struct {
	Data  []float32
	Shape [4]int
}

// NewTensor allocates a zero-filled tensor with the given shape.
func NewTensor(batch, channels, height, width int) *Tensor {
	return &Tensor{
		Data:  make([]float32, batch*channels*height*width),
		Shape: [4]int{batch, channels, height, width},
	}
}

// At returns the value at [b, c, y, x].
func (t *Tensor) At(b, c, y, x int) float32 {
	return t.Data[((b*t.Shape[1]+c)*t.Shape[2]+y)*t.Shape[3]+x]
}

// Set stores a value at [b, c, y, x].
func (t *Tensor) Set(b, c, y, x int, v float32) {
	t.Data[((b*t.Shape[1]+c)*t.Shape[2]+y)*t.Shape[3]+x] = v
}

// Len returns the number of elements implied by the shape.
func (t *Tensor) Len() int {
	return t.Shape[0] * t.Shape[1] * t.Shape[2] * t.Shape[3]
}

// Validate checks that the data length matches the shape.
func (t *Tensor) Validate() error {
	if t == nil {
		return fmt.Errorf("nil tensor")
	}
	for _, d := range t.Shape {
		if d <= 0 {
			return fmt.Errorf("invalid tensor shape %v", t.Shape)
		}
	}
	if len(t.Data) != t.Len() {
		return fmt.Errorf("tensor data length %d does not match shape %v", len(t.Data), t.Shape)
	}
	return nil
}

// ModelType identifies a supported background-removal model architecture.
type ModelType int

const (
	U2Net ModelType = iota
	BiRefNet
	ISNet
	RMBG
)

// Normalization selects the input normalization scheme for a model.
type Normalization int

const (
	// NormIdentity divides each channel by 255 and applies nothing else.
	NormIdentity Normalization = iota
	// NormImageNet applies the ImageNet mean/std after the /255 rescale.
	NormImageNet
	// NormZeroCenter subtracts 0.5 per channel after the /255 rescale.
	NormZeroCenter
)

// MaskMode selects how raw activations become a probability mask.
type MaskMode int

const (
	// MaskPlain applies sigmoid only.
	MaskPlain MaskMode = iota
	// MaskNormalize applies sigmoid followed by min-max rescaling.
	MaskNormalize
)

// ModelDescriptor is the configuration the core receives from the
// surrounding model-loading machinery. The core never selects or
// fetches models itself.
type ModelDescriptor struct {
	InputSize     int
	Normalization Normalization
	MaskMode      MaskMode
}

// Descriptor returns the preprocessing/postprocessing contract for a model type.
func (m ModelType) Descriptor() ModelDescriptor {
	switch m {
	case BiRefNet:
		return ModelDescriptor{InputSize: 1024, Normalization: NormImageNet, MaskMode: MaskNormalize}
	case ISNet:
		return ModelDescriptor{InputSize: 1024, Normalization: NormImageNet, MaskMode: MaskPlain}
	case RMBG:
		return ModelDescriptor{InputSize: 1024, Normalization: NormZeroCenter, MaskMode: MaskPlain}
	default:
		return ModelDescriptor{InputSize: 320, Normalization: NormIdentity, MaskMode: MaskPlain}
	}
}

// String returns the canonical model name.
func (m ModelType) String() string {
	switch m {
	case BiRefNet:
		return "birefnet"
	case ISNet:
		return "isnet"
	case RMBG:
		return "rmbg"
	default:
		return "u2net"
	}
}

// ModelTypeFromName parses a model name into a ModelType.
func ModelTypeFromName(name string) (ModelType, bool) {
	switch name {
	case "u2net":
		return U2Net, true
	case "birefnet":
		return BiRefNet, true
	case "isnet":
		return ISNet, true
	case "rmbg":
		return RMBG, true
	}
	return 0, false
}

// ModelNames lists all supported model names.
func ModelNames() []string {
	return []string{"u2net", "birefnet", "isnet", "rmbg"}
}
