package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"artbid/internal/app"
	"artbid/internal/ratelimit"
	"artbid/internal/util"
	"artbid/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                     *app.App
	RedisAddr               string
	RedisPassword           string
	BidRateLimitPerMinute   int
	LoginRateLimitPerMinute int
	TrustedProxyCIDRs       []string
}

// Server exposes the auction HTTP endpoints.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	bidLimiter     *ratelimit.FixedWindowLimiter
	loginLimiter   *ratelimit.FixedWindowLimiter
	trustedProxies *util.TrustedProxies
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	bidLimit := cfg.BidRateLimitPerMinute
	if bidLimit <= 0 {
		bidLimit = 30
	}
	loginLimit := cfg.LoginRateLimitPerMinute
	if loginLimit <= 0 {
		loginLimit = 10
	}
	newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
		prefix := "artbid:ratelimit:" + name
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init %s limiter: %w", name, err)
		}
		return limiter, nil
	}
	bidLimiter, err := newLimiter("bid", bidLimit)
	if err != nil {
		return nil, err
	}
	loginLimiter, err := newLimiter("login", loginLimit)
	if err != nil {
		return nil, err
	}
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		bidLimiter:     bidLimiter,
		loginLimiter:   loginLimiter,
		trustedProxies: trusted,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler wrapped with middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// public auction surface
	s.mux.HandleFunc("/api/paintings", s.handlePaintings)
	s.mux.HandleFunc("/api/paintings/", s.handlePaintingsSubtree)

	// auth
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/check-mobile/", s.handleCheckMobile)

	// admin
	s.mux.HandleFunc("/api/admin/login", s.handleAdminLogin)
	s.mux.Handle("/api/admin/dashboard-stats", s.adminOnly(s.handleDashboardStats))
	s.mux.Handle("/api/admin/users", s.adminOnly(s.handleAdminUsers))
	s.mux.Handle("/api/admin/paintings", s.adminOnly(s.handleAdminPaintings))
	s.mux.Handle("/api/admin/paintings/", s.adminOnly(s.handleAdminPaintingByID))
	s.mux.Handle("/api/admin/bids", s.adminOnly(s.handleAdminBids))
	s.mux.Handle("/api/admin/auction-settings", s.adminOnly(s.handleAuctionSettings))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "Authorization required")
			return
		}
		user, err := s.app.UserFromToken(token)
		if err != nil {
			writeAppError(w, r, err, "Authorization failed")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
		if user.Role != domain.RoleAdmin {
			writeFailure(w, http.StatusForbidden, app.ErrNotAdmin.Error())
			return
		}
		next(w, r, user)
	})
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	key := util.ClientIP(r, s.trustedProxies)
	if limiter.Allow(key) {
		return true
	}
	writeFailure(w, http.StatusTooManyRequests, msg)
	return false
}

// painting handlers

func (s *Server) handlePaintings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	paintings, err := s.app.ListPaintings()
	if err != nil {
		writeAppError(w, r, err, "Failed to fetch paintings")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"paintings": paintings})
}

func (s *Server) handlePaintingsSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/paintings/")
	switch {
	case rest == "bid":
		s.handleBid(w, r)
	case rest == "user-bids":
		s.handleUserBids(w, r)
	case rest != "" && !strings.Contains(rest, "/"):
		s.handlePaintingDetail(w, r, rest)
	default:
		writeFailure(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handlePaintingDetail(w http.ResponseWriter, r *http.Request, paintingID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	bearer, _ := bearerToken(r)
	detail, err := s.app.GetPaintingDetail(paintingID, bearer)
	if err != nil {
		writeAppError(w, r, err, "Failed to fetch painting details")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"painting":    paintingDetailPayload(detail),
		"userBidInfo": detail.UserBid,
	})
}

func (s *Server) handleUserBids(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	bids, err := s.app.UserBids(r.URL.Query().Get("mobile"))
	if err != nil {
		writeAppError(w, r, err, "Failed to fetch user bids")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"bids": bids})
}

type bidRequest struct {
	PaintingID string  `json:"paintingId"`
	BidAmount  float64 `json:"bidAmount"`
	Name       string  `json:"name"`
	Mobile     string  `json:"mobile"`
}

type bidPayload struct {
	ID        string    `json:"id"`
	BidAmount float64   `json:"bidAmount"`
	BidTime   time.Time `json:"bidTime"`
	Rank      int       `json:"rank"`
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.bidLimiter, "Too many bids, please slow down") {
		return
	}
	var req bidRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	receipt, err := s.app.PlaceBid(bidIdentity(r, req), req.PaintingID, req.BidAmount)
	if err != nil {
		writeAppError(w, r, err, "Failed to place bid")
		return
	}

	resp := envelope{
		Success: true,
		Message: receipt.Message,
		Data: map[string]any{
			"bid": bidPayload{
				ID:        receipt.Bid.ID,
				BidAmount: receipt.Bid.Amount,
				BidTime:   receipt.Bid.Time,
				Rank:      receipt.Rank,
			},
		},
	}
	// Guest flows return the session so the SPA can keep bidding as
	// this user.
	if receipt.Resolved.Token != "" {
		resp.Token = receipt.Resolved.Token
		resp.User = userPayload(receipt.Resolved.User)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// bidIdentity classifies the request as Authenticated or Guest. A
// missing, "null", or "undefined" bearer token falls through to the
// guest pair; anything else is authenticated.
func bidIdentity(r *http.Request, req bidRequest) app.Identity {
	if token, ok := bearerToken(r); ok {
		return app.Authenticated{Token: token}
	}
	if req.Name != "" && req.Mobile != "" {
		return app.Guest{Name: req.Name, Mobile: req.Mobile}
	}
	return nil
}

func paintingDetailPayload(detail app.PaintingDetail) map[string]any {
	return map[string]any{
		"id":            detail.Painting.ID,
		"artistName":    detail.Painting.ArtistName,
		"paintingName":  detail.Painting.PaintingName,
		"imageUrl":      detail.Painting.ImageURL,
		"basePrice":     detail.Painting.BasePrice,
		"currentPrice":  detail.Painting.CurrentPrice,
		"totalBidders":  detail.Painting.TotalBidders,
		"auctionActive": detail.AuctionActive,
	}
}

func userPayload(user domain.User) map[string]any {
	return map[string]any{
		"id":        user.ID,
		"name":      user.Name(),
		"mobile":    user.Mobile,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
	}
}

// bearerToken extracts the Authorization bearer credential. The SPA
// historically sent the literal strings "null"/"undefined" for absent
// tokens; both are treated as missing.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" || token == "null" || token == "undefined" {
		return "", false
	}
	return token, true
}
