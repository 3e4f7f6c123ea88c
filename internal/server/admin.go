package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"artbid/internal/app"
	"artbid/pkg/domain"
)

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.app.Stats()
	if err != nil {
		writeAppError(w, r, err, "Failed to load dashboard stats")
		return
	}
	writeSuccess(w, http.StatusOK, stats)
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	users, err := s.app.ListUsers()
	if err != nil {
		writeAppError(w, r, err, "Failed to load users")
		return
	}
	writeSuccess(w, http.StatusOK, users)
}

func (s *Server) handleAdminBids(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	bids, err := s.app.ListAllBids()
	if err != nil {
		writeAppError(w, r, err, "Failed to load bids")
		return
	}
	writeSuccess(w, http.StatusOK, bids)
}

type paintingRequest struct {
	ArtistName   string  `json:"artistName"`
	PaintingName string  `json:"paintingName"`
	ImageURL     string  `json:"imageUrl"`
	BasePrice    float64 `json:"basePrice"`
	Status       string  `json:"status"`
}

func (req paintingRequest) input() app.PaintingInput {
	return app.PaintingInput{
		ArtistName:   req.ArtistName,
		PaintingName: req.PaintingName,
		ImageURL:     req.ImageURL,
		BasePrice:    req.BasePrice,
		Status:       req.Status,
	}
}

func (s *Server) handleAdminPaintings(w http.ResponseWriter, r *http.Request, _ domain.User) {
	switch r.Method {
	case http.MethodGet:
		paintings, err := s.app.ListAllPaintings()
		if err != nil {
			writeAppError(w, r, err, "Failed to load paintings")
			return
		}
		writeSuccess(w, http.StatusOK, paintings)
	case http.MethodPost:
		var req paintingRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		painting, err := s.app.CreatePainting(req.input())
		if err != nil {
			writeAppError(w, r, err, "Failed to create painting")
			return
		}
		writeSuccess(w, http.StatusCreated, painting)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAdminPaintingByID(w http.ResponseWriter, r *http.Request, _ domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/paintings/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, http.StatusNotFound, app.ErrPaintingNotFound.Error())
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req paintingRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		painting, err := s.app.UpdatePainting(id, req.input())
		if err != nil {
			writeAppError(w, r, err, "Failed to update painting")
			return
		}
		writeSuccess(w, http.StatusOK, painting)
	case http.MethodDelete:
		if err := s.app.DeletePainting(id); err != nil {
			writeAppError(w, r, err, "Failed to delete painting")
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Painting deleted successfully"})
	default:
		methodNotAllowed(w)
	}
}

type auctionSettingsRequest struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (s *Server) handleAuctionSettings(w http.ResponseWriter, r *http.Request, _ domain.User) {
	switch r.Method {
	case http.MethodGet:
		settings, found, err := s.app.AuctionSettings()
		if err != nil {
			writeAppError(w, r, err, "Failed to load auction settings")
			return
		}
		if !found {
			writeSuccess(w, http.StatusOK, nil)
			return
		}
		writeSuccess(w, http.StatusOK, settings)
	case http.MethodPut:
		var req auctionSettingsRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		settings, err := s.app.UpdateAuctionSettings(req.StartDate, req.EndDate)
		if err != nil {
			writeAppError(w, r, err, "Failed to update auction settings")
			return
		}
		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: "Auction settings updated successfully",
			Data:    settings,
		})
	default:
		methodNotAllowed(w)
	}
}
