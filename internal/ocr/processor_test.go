package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vburojevic/platescan/internal/domain"
)

// stubEngine answers with a canned result or error and counts calls
type stubEngine struct {
	name  string
	text  string
	conf  float64
	err   error
	calls int
	wait  bool
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	s.calls++
	if s.wait {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}
	if s.err != nil {
		return Result{}, s.err
	}
	return Result{Text: s.text, Confidence: s.conf, Engine: s.name}, nil
}

func plateInput() Input {
	return Input{Kind: domain.ReadingPlate, Image: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"}
}

func TestNewProcessorRequiresEngines(t *testing.T) {
	_, err := NewProcessor(nil)
	assert.ErrorIs(t, err, ErrNoEngines)
}

func TestProcessFirstEngineWins(t *testing.T) {
	first := &stubEngine{name: "gemini", text: " 1234-abc\n", conf: 0.95}
	second := &stubEngine{name: "ocrspace", text: "9999ZZZ", conf: 0.8}

	p, err := NewProcessor([]Engine{first, second}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini", "ocrspace"}, p.Engines())

	out := p.Process(context.Background(), plateInput())

	assert.True(t, out.Success)
	assert.Equal(t, "1234ABC", out.Text)
	assert.Equal(t, 0.95, out.Confidence)
	assert.Equal(t, "gemini", out.Engine)
	assert.Equal(t, domain.ReadingPlate, out.Kind)
	assert.Empty(t, out.Error)
	assert.Len(t, out.Attempts, 1)
	assert.Equal(t, 0, second.calls)
}

func TestProcessFallsThrough(t *testing.T) {
	tests := []struct {
		name  string
		first *stubEngine
	}{
		{"engine error", &stubEngine{name: "gemini", err: errors.New("quota exceeded")}},
		{"sentinel", &stubEngine{name: "gemini", text: "NOT_DETECTED"}},
		{"empty answer", &stubEngine{name: "gemini", text: "   "}},
		{"text that cleans to nothing", &stubEngine{name: "gemini", text: "AB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			second := &stubEngine{name: "tesseract", text: "4321XYZ", conf: 0.71}
			p, err := NewProcessor([]Engine{tt.first, second})
			require.NoError(t, err)

			out := p.Process(context.Background(), plateInput())

			assert.True(t, out.Success)
			assert.Equal(t, "4321XYZ", out.Text)
			assert.Equal(t, "tesseract", out.Engine)
			require.Len(t, out.Attempts, 2)
			assert.NotEmpty(t, out.Attempts[0].Error)
			assert.Empty(t, out.Attempts[1].Error)
		})
	}
}

func TestProcessAllEnginesFail(t *testing.T) {
	t.Run("reports the last engine error", func(t *testing.T) {
		p, err := NewProcessor([]Engine{
			&stubEngine{name: "gemini", text: "NOT_DETECTED"},
			&stubEngine{name: "ocrspace", err: errors.New("invalid API key")},
		})
		require.NoError(t, err)

		out := p.Process(context.Background(), plateInput())

		assert.False(t, out.Success)
		assert.Empty(t, out.Text)
		assert.Equal(t, 0.0, out.Confidence)
		assert.Equal(t, "ocrspace", out.Engine)
		assert.Equal(t, "invalid API key", out.Error)
	})

	t.Run("reports not detected when nothing usable came back", func(t *testing.T) {
		p, err := NewProcessor([]Engine{&stubEngine{name: "gemini", text: "1234567"}})
		require.NoError(t, err)

		out := p.Process(context.Background(), Input{Kind: domain.ReadingOdometer})

		assert.False(t, out.Success)
		assert.Equal(t, ErrNotDetected.Error(), out.Error)
	})
}

func TestProcessOdometerCleanup(t *testing.T) {
	p, err := NewProcessor([]Engine{&stubEngine{name: "gemini", text: "045.210", conf: 0.95}})
	require.NoError(t, err)

	out := p.Process(context.Background(), Input{Kind: domain.ReadingOdometer})
	assert.True(t, out.Success)
	assert.Equal(t, "45210", out.Text)
}

func TestProcessTimeout(t *testing.T) {
	slow := &stubEngine{name: "gemini", wait: true}
	fast := &stubEngine{name: "ocrspace", text: "1234ABC", conf: 0.8}

	p, err := NewProcessor([]Engine{slow, fast}, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	out := p.Process(context.Background(), plateInput())
	assert.True(t, out.Success)
	assert.Equal(t, "ocrspace", out.Engine)
	assert.Contains(t, out.Attempts[0].Error, context.DeadlineExceeded.Error())
}

func TestProcessCanceledContext(t *testing.T) {
	engine := &stubEngine{name: "gemini", text: "1234ABC"}
	p, err := NewProcessor([]Engine{engine})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := p.Process(ctx, plateInput())
	assert.False(t, out.Success)
	assert.Equal(t, context.Canceled.Error(), out.Error)
	assert.Equal(t, 0, engine.calls)
}
