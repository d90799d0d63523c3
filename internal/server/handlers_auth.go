package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

type healthResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Engines []string `json:"engines"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "OCR service running",
		Engines: s.recognizer.Engines(),
	})
}

// handleLogin accepts a JSON body or a classic form post
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}
	req.Username = strings.TrimSpace(req.Username)

	if req.Username == "" || !s.users.Authenticate(req.Username, req.Password) {
		s.logger.Warn("Login failed", zap.String("username", req.Username), zap.String("remote", r.RemoteAddr))
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	// Replace any session the browser still holds
	if c, err := r.Cookie(CookieName); err == nil {
		s.sessions.Delete(c.Value)
	}
	sess := s.sessions.Create(req.Username)
	s.setCookie(w, sess.ID)
	s.logger.Info("Login", zap.String("username", req.Username))

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Username: sess.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		s.sessions.Delete(c.Value)
	}
	s.clearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Username: sess.Username})
}
