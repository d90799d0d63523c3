package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextWriter_WriteRecognition(t *testing.T) {
	t.Run("success with attempts table", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewTextWriterWithStyles(&buf, PlainStyles())

		err := w.WriteRecognition(&RecognitionOutput{
			File:       "odo.png",
			Kind:       "odometer",
			Success:    true,
			Text:       "45210",
			Confidence: 0.8,
			Engine:     "ocrspace",
			Attempts: []AttemptOutput{
				{Engine: "gemini", Error: "context deadline exceeded", DurationMS: 30000},
				{Engine: "ocrspace", Raw: "045210\n", DurationMS: 812},
			},
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "odo.png")
		assert.Contains(t, out, "OK odometer: 45210")
		assert.Contains(t, out, "confidence 0.80")
		assert.Contains(t, out, "context deadline exceeded")
		assert.Contains(t, out, "812ms")
	})

	t.Run("failure without attempts", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewTextWriterWithStyles(&buf, PlainStyles())

		require.NoError(t, w.WriteRecognition(&RecognitionOutput{File: "x.jpg", Kind: "plate", Error: "no valid text detected"}))
		assert.Contains(t, buf.String(), "FAILED license plate: no valid text detected")
	})
}

func TestTextWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriterWithStyles(&buf, PlainStyles())

	require.NoError(t, w.WriteError("LOAD_FAILED", "open x.jpg: no such file", "check the path"))
	assert.Equal(t, "Error [LOAD_FAILED]: open x.jpg: no such file\n  hint: check the path\n", buf.String())
}

func TestStylesFor(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, "text", StylesFor(&buf).Success.Render("text"))
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n b\tc "))
	long := oneLine(string(bytes.Repeat([]byte("x"), 100)))
	assert.Len(t, long, 60)
}
