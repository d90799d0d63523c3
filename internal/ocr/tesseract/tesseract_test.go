//go:build tesseract

package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/vburojevic/platescan/internal/domain"
	"github.com/vburojevic/platescan/internal/ocr"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderDigits(t *testing.T, s string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 160, 40))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 25),
	}
	d.DrawString(s)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRecognizeDigits(t *testing.T) {
	ensureTesseractAvailable(t)

	e, err := New([]string{"eng"})
	require.NoError(t, err)
	assert.True(t, Available())

	res, err := e.Recognize(context.Background(), ocr.Input{
		Kind:     domain.ReadingOdometer,
		Image:    renderDigits(t, "045210"),
		MIMEType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "tesseract", res.Engine)
	assert.Contains(t, res.Text, "4521")
}

func TestRecognizeCanceled(t *testing.T) {
	e, err := New(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Recognize(ctx, ocr.Input{Kind: domain.ReadingPlate})
	assert.ErrorIs(t, err, context.Canceled)
}
