// ABOUTME: Converts base64-encoded images to grayscale PNG.
// ABOUTME: Sniffs the image type before decoding and reports failures as *DecodeError.

package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// OutputMIME is the MIME type of every converted image.
const OutputMIME = "image/png"

var supportedMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// DecodeError wraps any failure to turn the input into an image.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("image %s failed: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Result is a converted image.
type Result struct {
	Base64     string
	MIME       string
	SourceMIME string
	Width      int
	Height     int
}

// DecodeBase64 accepts standard or unpadded base64, optionally prefixed by a
// data URI header.
func DecodeBase64(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		if i := strings.Index(data, ","); i >= 0 {
			data = data[i+1:]
		}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(data)
		if rawErr != nil {
			return nil, &DecodeError{Stage: "base64 decode", Err: err}
		}
	}
	return raw, nil
}

// ToGrayscale decodes a base64 image, converts it to 8-bit grayscale, and
// returns it as base64 PNG.
func ToGrayscale(data string) (*Result, error) {
	raw, err := DecodeBase64(data)
	if err != nil {
		return nil, err
	}

	mt := mimetype.Detect(raw)
	if !supportedMIME[mt.String()] {
		return nil, &DecodeError{Stage: "decode", Err: fmt.Errorf("unsupported image type %s", mt.String())}
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Stage: "decode", Err: err}
	}

	gray := Grayscale(src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	b := gray.Bounds()
	return &Result{
		Base64:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		MIME:       OutputMIME,
		SourceMIME: mt.String(),
		Width:      b.Dx(),
		Height:     b.Dy(),
	}, nil
}

// Grayscale converts any image to *image.Gray with ITU-R 601 luma. Alpha is
// dropped without premultiplying, so a transparent pixel keeps the gray of
// its stored color instead of turning black.
func Grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetGray(x, y, luma(src.At(x, y)))
		}
	}
	return dst
}

func luma(c color.Color) color.Gray {
	if g, ok := c.(color.Gray); ok {
		return g
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	y := (19595*uint32(n.R) + 38470*uint32(n.G) + 7471*uint32(n.B) + 1<<15) >> 16
	return color.Gray{Y: uint8(y)}
}
