package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/vburojevic/platescan/internal/domain"
	"github.com/vburojevic/platescan/internal/ocr"
)

type fakeModels struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: f.text}},
			},
		}},
	}, nil
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestRecognize(t *testing.T) {
	fake := &fakeModels{text: " 1234ABC\n"}
	e := &Engine{models: fake, model: DefaultModel}

	res, err := e.Recognize(context.Background(), ocr.Input{
		Kind:     domain.ReadingPlate,
		Image:    []byte{0xff, 0xd8, 0xff},
		MIMEType: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, "1234ABC", res.Text)
	assert.Equal(t, 0.95, res.Confidence)
	assert.Equal(t, "gemini", res.Engine)
	assert.Equal(t, DefaultModel, fake.model)

	require.Len(t, fake.contents, 1)
	parts := fake.contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, ocr.Prompt(domain.ReadingPlate), parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, parts[1].InlineData.Data)
	require.NotNil(t, fake.config.Temperature)
	assert.Equal(t, float32(0), *fake.config.Temperature)
}

func TestRecognizeDefaultsMIMEType(t *testing.T) {
	fake := &fakeModels{text: "45210"}
	e := &Engine{models: fake, model: "m"}

	_, err := e.Recognize(context.Background(), ocr.Input{Kind: domain.ReadingOdometer, Image: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", fake.contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, ocr.Prompt(domain.ReadingOdometer), fake.contents[0].Parts[0].Text)
}

func TestRecognizeErrors(t *testing.T) {
	e := &Engine{models: &fakeModels{err: errors.New("429 quota")}, model: "m"}

	_, err := e.Recognize(context.Background(), ocr.Input{Kind: domain.ReadingPlate, Image: []byte{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429 quota")

	_, err = e.Recognize(context.Background(), ocr.Input{Kind: domain.ReadingPlate})
	assert.Error(t, err)
}
