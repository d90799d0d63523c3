package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vburojevic/platescan/internal/domain"
	"github.com/vburojevic/platescan/internal/export"
	"github.com/vburojevic/platescan/internal/session"
)

// vehicleRequest accepts both the current field names and the ones the
// first capture page sends (matricula, kilometros).
type vehicleRequest struct {
	Plate      string `json:"plate"`
	Odometer   string `json:"odometer"`
	Matricula  string `json:"matricula"`
	Kilometros string `json:"kilometros"`
	Index      *int   `json:"index"`
}

func (v *vehicleRequest) normalize() {
	if v.Plate == "" {
		v.Plate = v.Matricula
	}
	if v.Odometer == "" {
		v.Odometer = v.Kilometros
	}
	v.Plate = strings.TrimSpace(v.Plate)
	v.Odometer = strings.TrimSpace(v.Odometer)
}

type vehicleResponse struct {
	Success bool               `json:"success"`
	Vehicle domain.VehicleView `json:"vehicle"`
}

type vehicleListResponse struct {
	Success  bool                 `json:"success"`
	Username string               `json:"username"`
	Vehicles []domain.VehicleView `json:"vehicles"`
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	vehicles, err := s.sessions.Vehicles(sess.ID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleListResponse{
		Success:  true,
		Username: sess.Username,
		Vehicles: domain.ViewAll(vehicles),
	})
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	req.normalize()

	v, err := s.sessions.AddVehicle(sessionFrom(r.Context()).ID, req.Plate, req.Odometer)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponse{Success: true, Vehicle: v.View()})
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	req.normalize()

	index, err := requestIndex(r, req.Index)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := s.sessions.UpdateVehicle(sessionFrom(r.Context()).ID, index, req.Plate, req.Odometer)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponse{Success: true, Vehicle: v.View()})
}

func (s *Server) handleRemoveVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if r.PathValue("index") == "" {
		if err := decodeJSON(r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
	}

	index, err := requestIndex(r, req.Index)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := s.sessions.RemoveVehicle(sessionFrom(r.Context()).ID, index)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponse{Success: true, Vehicle: v.View()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	vehicles, err := s.sessions.Vehicles(sess.ID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	// Render fully before writing headers so a failure can still be JSON
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, vehicles); err != nil {
		if errors.Is(err, export.ErrNoVehicles) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := export.Filename(s.clock.Now())
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	s.logger.Info("Exported vehicles", zap.String("username", sess.Username), zap.Int("count", len(vehicles)), zap.String("file", filename))
}

// requestIndex prefers the {index} path value over an index in the body
func requestIndex(r *http.Request, bodyIndex *int) (int, error) {
	if raw := r.PathValue("index"); raw != "" {
		i, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid vehicle index %q", raw)
		}
		return i, nil
	}
	if bodyIndex == nil {
		return 0, errors.New("vehicle index is required")
	}
	return *bodyIndex, nil
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrMissingFields):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrVehicleNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		s.clearCookie(w)
		writeError(w, http.StatusUnauthorized, "session expired, please log in again")
	default:
		s.logger.Error("Session store failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
