package inference

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"golang.org/x/image/draw"
)

// Preprocess decodes data, resizes it to shape with bilinear sampling and
// returns the pixels in row-major, channel-last order multiplied by scale.
// Images with more than maxPixels pixels are rejected from their header
// alone; maxPixels <= 0 disables the check.
func Preprocess(data []byte, shape InputShape, scale float64, maxPixels int64) ([]float32, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidImage, err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: image is %dx%d, limit %d pixels",
			common.ErrorInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, shape.Width, shape.Height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	s := float32(scale)
	out := make([]float32, 0, shape.Size())
	for y := 0; y < shape.Height; y++ {
		for x := 0; x < shape.Width; x++ {
			px := dst.RGBAAt(x, y)
			if shape.Channels == 1 {
				g := color.GrayModel.Convert(px).(color.Gray)
				out = append(out, float32(g.Y)*s)
				continue
			}
			out = append(out, float32(px.R)*s, float32(px.G)*s, float32(px.B)*s)
		}
	}
	return out, nil
}
