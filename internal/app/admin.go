package app

import (
	"fmt"
	"strings"
	"time"

	"artbid/internal/util"
	"artbid/pkg/domain"
)

// DashboardStats summarizes the system for the admin dashboard.
type DashboardStats struct {
	TotalPaintings int  `json:"totalPaintings"`
	TotalUsers     int  `json:"totalUsers"`
	TotalBids      int  `json:"totalBids"`
	AuctionActive  bool `json:"auctionActive"`
}

// Stats gathers dashboard counters.
func (a *App) Stats() (DashboardStats, error) {
	paintings, err := a.store.PaintingCount()
	if err != nil {
		return DashboardStats{}, fmt.Errorf("count paintings: %w", err)
	}
	users, err := a.store.UserCount()
	if err != nil {
		return DashboardStats{}, fmt.Errorf("count users: %w", err)
	}
	bids, err := a.store.ActiveBidCount()
	if err != nil {
		return DashboardStats{}, fmt.Errorf("count bids: %w", err)
	}
	active, err := a.AuctionActive()
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{
		TotalPaintings: paintings,
		TotalUsers:     users,
		TotalBids:      bids,
		AuctionActive:  active,
	}, nil
}

// ListUsers returns all registered users.
func (a *App) ListUsers() ([]domain.User, error) {
	return a.store.ListUsers()
}

// ListAllPaintings returns every painting regardless of status.
func (a *App) ListAllPaintings() ([]domain.Painting, error) {
	return a.store.ListPaintings()
}

// ListAllBids returns every active bid annotated for the admin view.
func (a *App) ListAllBids() ([]domain.AdminBid, error) {
	return a.store.ListActiveBids()
}

// PaintingInput is the admin-supplied painting payload.
type PaintingInput struct {
	ArtistName   string
	PaintingName string
	ImageURL     string
	BasePrice    float64
	Status       string
}

func (in PaintingInput) validate() error {
	if strings.TrimSpace(in.ArtistName) == "" || strings.TrimSpace(in.PaintingName) == "" {
		return fmt.Errorf("artistName and paintingName are required")
	}
	if in.BasePrice <= 0 {
		return fmt.Errorf("basePrice must be a positive number")
	}
	return nil
}

func (in PaintingInput) status() domain.PaintingStatus {
	switch domain.PaintingStatus(in.Status) {
	case domain.PaintingInactive:
		return domain.PaintingInactive
	case domain.PaintingSold:
		return domain.PaintingSold
	default:
		return domain.PaintingActive
	}
}

// CreatePainting stores a new painting.
func (a *App) CreatePainting(in PaintingInput) (domain.Painting, error) {
	if err := in.validate(); err != nil {
		return domain.Painting{}, err
	}
	now := a.now().UTC()
	painting := domain.Painting{
		ID:           util.NewID(),
		ArtistName:   strings.TrimSpace(in.ArtistName),
		PaintingName: strings.TrimSpace(in.PaintingName),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		BasePrice:    in.BasePrice,
		Status:       in.status(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SavePainting(painting); err != nil {
		return domain.Painting{}, fmt.Errorf("save painting: %w", err)
	}
	return painting, nil
}

// UpdatePainting overwrites an existing painting's attributes.
func (a *App) UpdatePainting(id string, in PaintingInput) (domain.Painting, error) {
	if err := in.validate(); err != nil {
		return domain.Painting{}, err
	}
	painting, found, err := a.store.GetPainting(id)
	if err != nil {
		return domain.Painting{}, fmt.Errorf("fetch painting: %w", err)
	}
	if !found {
		return domain.Painting{}, ErrPaintingNotFound
	}
	painting.ArtistName = strings.TrimSpace(in.ArtistName)
	painting.PaintingName = strings.TrimSpace(in.PaintingName)
	painting.ImageURL = strings.TrimSpace(in.ImageURL)
	painting.BasePrice = in.BasePrice
	painting.Status = in.status()
	painting.UpdatedAt = a.now().UTC()
	if err := a.store.SavePainting(painting); err != nil {
		return domain.Painting{}, fmt.Errorf("save painting: %w", err)
	}
	return painting, nil
}

// DeletePainting removes a painting and its bids.
func (a *App) DeletePainting(id string) error {
	_, found, err := a.store.GetPainting(id)
	if err != nil {
		return fmt.Errorf("fetch painting: %w", err)
	}
	if !found {
		return ErrPaintingNotFound
	}
	return a.store.DeletePainting(id)
}

// AuctionSettings returns the currently active window, if any.
func (a *App) AuctionSettings() (domain.AuctionSettings, bool, error) {
	return a.store.ActiveAuctionSettings()
}

// UpdateAuctionSettings replaces the active auction window.
func (a *App) UpdateAuctionSettings(start, end time.Time) (domain.AuctionSettings, error) {
	if !end.After(start) {
		return domain.AuctionSettings{}, ErrInvalidAuctionWindow
	}
	settings := domain.AuctionSettings{
		ID:        util.NewID(),
		IsActive:  true,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		CreatedAt: a.now().UTC(),
	}
	if err := a.store.ReplaceAuctionSettings(settings); err != nil {
		return domain.AuctionSettings{}, fmt.Errorf("save auction settings: %w", err)
	}
	return settings, nil
}
