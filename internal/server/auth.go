package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"artbid/internal/app"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "Too many attempts, please try again later") {
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	session, err := s.app.Register(req.FirstName, req.LastName, req.Mobile, req.Password)
	if err != nil {
		writeAppError(w, r, err, "Registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Registration successful",
		Token:   session.Token,
		User:    userPayload(session.User),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, s.app.Login)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, s.app.AdminLogin)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, attempt func(string, string) (app.Session, error)) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, "Too many attempts, please try again later") {
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	session, err := attempt(req.Mobile, req.Password)
	if err != nil {
		writeAppError(w, r, err, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Token:   session.Token,
		User:    userPayload(session.User),
	})
}

func (s *Server) handleCheckMobile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	mobile := strings.TrimPrefix(r.URL.Path, "/api/auth/check-mobile/")
	exists, name, err := s.app.CheckMobile(mobile)
	if err != nil {
		writeAppError(w, r, err, "Failed to check mobile")
		return
	}
	data := map[string]any{"exists": exists}
	if exists {
		data["name"] = name
	}
	writeSuccess(w, http.StatusOK, data)
}
