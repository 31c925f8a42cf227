package decode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/ecoshot/ecoshot/internal/model"
)

// FormatQR marks a candidate decoded from a QR symbol. When several
// candidates arrive together, QR payloads are preferred because badges
// are printed as QR codes.
const FormatQR = "qr"

// Candidate is one decoded payload from an image
type Candidate struct {
	Text   string
	Format string
}

// Decoder extracts textual payloads from a pixel buffer. It is a pure
// function over the image: same bytes, same candidates.
type Decoder interface {
	Decode(ctx context.Context, image []byte) ([]Candidate, error)
}

// NopDecoder never finds a candidate. Used when no scanner command is
// configured, so every shot resolves through classification.
type NopDecoder struct{}

// Ensure NopDecoder implements Decoder
var _ Decoder = (*NopDecoder)(nil)

// Decode returns no candidates
func (NopDecoder) Decode(context.Context, []byte) ([]Candidate, error) {
	return nil, nil
}

// ExecDecoder shells out to an external QR scanner executable. The
// scanner takes an image path argument and prints a single JSON object
// on stdout: {"success": bool, "data": string, "bbox": [...]}.
type ExecDecoder struct {
	command string
}

// Ensure ExecDecoder implements Decoder
var _ Decoder = (*ExecDecoder)(nil)

// NewExecDecoder creates a decoder backed by the given scanner command
func NewExecDecoder(command string) *ExecDecoder {
	return &ExecDecoder{command: command}
}

type scanResult struct {
	Success bool      `json:"success"`
	Data    string    `json:"data"`
	BBox    []float64 `json:"bbox"`
}

// Decode writes the image to a temporary file, runs the scanner on it
// and parses the result. A failed run or an unsuccessful scan yields no
// candidates.
func (d *ExecDecoder) Decode(ctx context.Context, image []byte) ([]Candidate, error) {
	tmp, err := os.CreateTemp("", "ecoshot-scan-*.img")
	if err != nil {
		return nil, fmt.Errorf("%w: temp file: %v", model.ErrDecodeFailed, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(image); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("%w: write image: %v", model.ErrDecodeFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: close image: %v", model.ErrDecodeFailed, err)
	}

	out, err := exec.CommandContext(ctx, d.command, tmp.Name()).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: run %s: %v", model.ErrDecodeFailed, d.command, err)
	}

	var result scanResult
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("%w: parse scanner output: %v", model.ErrDecodeFailed, err)
	}
	if !result.Success || result.Data == "" {
		return nil, nil
	}
	return []Candidate{{Text: result.Data, Format: FormatQR}}, nil
}
