package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vburojevic/platescan/internal/domain"
	"github.com/vburojevic/platescan/internal/imagedata"
	"github.com/vburojevic/platescan/internal/ocr"
)

const (
	plateKind    = domain.ReadingPlate
	odometerKind = domain.ReadingOdometer
)

type imageRequest struct {
	Image string `json:"image"`
}

// ocrResponse mirrors ocr.Outcome, with the text repeated under the kind's
// own key. Legacy responses also carry the field names the first capture
// page reads (exito, matricula / kilometros, confianza, metodo).
type ocrResponse struct {
	Success    bool    `json:"success"`
	Kind       string  `json:"kind"`
	Text       string  `json:"text,omitempty"`
	Plate      string  `json:"plate,omitempty"`
	Odometer   string  `json:"odometer,omitempty"`
	Confidence float64 `json:"confidence"`
	Engine     string  `json:"engine,omitempty"`
	Error      string  `json:"error,omitempty"`

	Exito      *bool    `json:"exito,omitempty"`
	Matricula  string   `json:"matricula,omitempty"`
	Kilometros string   `json:"kilometros,omitempty"`
	Confianza  *float64 `json:"confianza,omitempty"`
	Metodo     string   `json:"metodo,omitempty"`
}

func newOCRResponse(out ocr.Outcome, legacy bool) ocrResponse {
	resp := ocrResponse{
		Success:    out.Success,
		Kind:       out.Kind.String(),
		Text:       out.Text,
		Confidence: out.Confidence,
		Engine:     out.Engine,
		Error:      out.Error,
	}
	if out.Success {
		switch out.Kind {
		case domain.ReadingPlate:
			resp.Plate = out.Text
		case domain.ReadingOdometer:
			resp.Odometer = out.Text
		}
	}
	if legacy {
		exito, confianza := out.Success, out.Confidence
		resp.Exito = &exito
		resp.Confianza = &confianza
		resp.Metodo = out.Engine
		resp.Matricula = resp.Plate
		resp.Kilometros = resp.Odometer
	}
	return resp
}

// handleOCR recognizes the posted image. legacy adds the first capture page's field names.
func (s *Server) handleOCR(kind domain.ReadingKind, legacy bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
		if req.Image == "" {
			writeError(w, http.StatusBadRequest, imagedata.ErrEmpty.Error())
			return
		}

		img, err := imagedata.DecodeDataURL(req.Image)
		if err != nil {
			s.logger.Warn("Rejected image", zap.String("kind", kind.String()), zap.Error(err))
			writeError(w, http.StatusBadRequest, "could not process the image: "+err.Error())
			return
		}

		s.logger.Debug("Processing image",
			zap.String("kind", kind.String()),
			zap.String("format", img.Format),
			zap.Int("width", img.Width),
			zap.Int("height", img.Height),
			zap.String("username", sessionFrom(r.Context()).Username))

		out := s.recognizer.Process(r.Context(), ocr.Input{
			Kind:     kind,
			Image:    img.Data,
			MIMEType: img.MIMEType(),
		})
		if !out.Success {
			s.logger.Warn("OCR failed", zap.String("kind", kind.String()), zap.String("engine", out.Engine), zap.String("error", out.Error))
		}

		// Recognition failures are reported in-band so the page can show them
		writeJSON(w, http.StatusOK, newOCRResponse(out, legacy))
	}
}
