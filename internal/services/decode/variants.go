package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	// Badge photos arrive as JPEG or PNG
	_ "image/jpeg"
)

// variant is one preprocessing treatment of the shot image. All
// variants run against the decoder concurrently; the first to produce a
// candidate wins.
type variant struct {
	name    string
	prepare func(image []byte) ([]byte, error)
}

// variants returns the fixed preprocessing set: the bytes as captured,
// a grayscale re-encode for noisy sensors, and a high-contrast binarize
// for glare and low light. There are no retries beyond this set.
func variants() []variant {
	return []variant{
		{name: "verbatim", prepare: verbatim},
		{name: "grayscale", prepare: grayscale},
		{name: "contrast", prepare: contrast},
	}
}

func verbatim(img []byte) ([]byte, error) {
	return img, nil
}

func grayscale(img []byte) ([]byte, error) {
	src, err := decodeImage(img)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, src.At(x, y))
		}
	}
	return encodePNG(gray)
}

// contrast stretches the luma range to full scale and then binarizes at
// the midpoint, which rescues washed-out badge prints
func contrast(img []byte) ([]byte, error) {
	src, err := decodeImage(img)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()

	gray := image.NewGray(bounds)
	minLuma, maxLuma := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			luma := color.GrayModel.Convert(src.At(x, y)).(color.Gray).Y
			gray.SetGray(x, y, color.Gray{Y: luma})
			if luma < minLuma {
				minLuma = luma
			}
			if luma > maxLuma {
				maxLuma = luma
			}
		}
	}

	if maxLuma <= minLuma {
		return encodePNG(gray)
	}

	spread := int(maxLuma) - int(minLuma)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			luma := gray.GrayAt(x, y).Y
			stretched := (int(luma) - int(minLuma)) * 255 / spread
			if stretched >= 128 {
				gray.SetGray(x, y, color.Gray{Y: 255})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return encodePNG(gray)
}

func decodeImage(img []byte) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return src, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
