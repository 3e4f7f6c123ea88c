package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"artbid/internal/store"
	"artbid/internal/token"
	"artbid/internal/util"
	"artbid/pkg/auth"
	"artbid/pkg/domain"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL string
	Store       store.Store
	Tokens      *token.Manager
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
	// AdminMobile/AdminPassword seed an admin account on startup when
	// no user holds that mobile yet.
	AdminMobile   string
	AdminPassword string
}

// App wires storage, tokens, and the auction rules together. The auction
// window is read from the store per request, never cached.
type App struct {
	store  store.Store
	tokens *token.Manager
	now    func() time.Time
}

// New constructs the application. A nil Store falls back to Postgres via
// DatabaseURL.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token manager required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	a := &App{
		store:  dataStore,
		tokens: cfg.Tokens,
		now:    now,
	}
	if cfg.AdminMobile != "" {
		if err := a.seedAdmin(cfg.AdminMobile, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}
	return a, nil
}

func (a *App) seedAdmin(mobile, password string) error {
	if !mobilePattern.MatchString(mobile) {
		return ErrInvalidMobile
	}
	if password == "" {
		return fmt.Errorf("admin password required")
	}
	if existing, found, err := a.store.GetUserByMobile(mobile); err != nil {
		return err
	} else if found {
		if existing.Role != domain.RoleAdmin {
			return fmt.Errorf("mobile %s already belongs to a non-admin account", mobile)
		}
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return a.store.SaveUser(domain.User{
		ID:           util.NewID(),
		FirstName:    "Auction",
		LastName:     "Admin",
		Mobile:       mobile,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    a.now().UTC(),
	})
}

// auctionGate loads the active window and rejects instants outside it.
func (a *App) auctionGate() error {
	settings, found, err := a.store.ActiveAuctionSettings()
	if err != nil {
		return fmt.Errorf("fetch auction settings: %w", err)
	}
	if !found {
		return ErrNoActiveAuction
	}
	now := a.now()
	if now.Before(settings.StartDate) {
		return ErrAuctionNotStarted
	}
	if now.After(settings.EndDate) {
		return ErrAuctionEnded
	}
	return nil
}

// AuctionActive reports whether bidding is currently open. Reads use this
// instead of the gate so listings succeed while bidding is closed.
func (a *App) AuctionActive() (bool, error) {
	settings, found, err := a.store.ActiveAuctionSettings()
	if err != nil {
		return false, fmt.Errorf("fetch auction settings: %w", err)
	}
	if !found {
		return false, nil
	}
	return settings.Open(a.now()), nil
}

// BidReceipt is the outcome of a successful bid placement.
type BidReceipt struct {
	Bid     domain.Bid
	Rank    int
	Message string
	// Resolved carries the identity used; Token/IsNew are set for
	// guest-flow callers.
	Resolved ResolvedUser
}

// PlaceBid resolves the caller, checks the auction window, validates the
// amount, and durably records the bid. A repeat bid from the same user on
// the same painting updates the existing active row in place.
//
// The highest-bid check and the write are two separate store operations;
// two racing bidders can both pass the check. That matches the original
// best-effort semantics.
func (a *App) PlaceBid(ident Identity, paintingID string, amount float64) (BidReceipt, error) {
	resolved, err := a.ResolveIdentity(ident)
	if err != nil {
		return BidReceipt{}, err
	}
	if err := a.auctionGate(); err != nil {
		return BidReceipt{}, err
	}
	if strings.TrimSpace(paintingID) == "" || amount <= 0 {
		return BidReceipt{}, ErrInvalidBidAmount
	}

	painting, found, err := a.store.GetPainting(paintingID)
	if err != nil {
		return BidReceipt{}, fmt.Errorf("fetch painting: %w", err)
	}
	if !found || painting.Status != domain.PaintingActive {
		return BidReceipt{}, ErrPaintingNotAvailable
	}
	if amount < painting.BasePrice {
		return BidReceipt{}, &BidBelowBaseError{BasePrice: painting.BasePrice}
	}

	highest, hasBids, err := a.store.HighestActiveBid(paintingID)
	if err != nil {
		return BidReceipt{}, fmt.Errorf("fetch highest bid: %w", err)
	}
	if hasBids && amount <= highest {
		return BidReceipt{}, &BidNotHighEnoughError{Highest: highest}
	}

	existing, hasOwn, err := a.store.GetActiveBid(paintingID, resolved.User.ID)
	if err != nil {
		return BidReceipt{}, fmt.Errorf("fetch own bid: %w", err)
	}
	bid := existing
	if hasOwn {
		bid.Amount = amount
		bid.Time = a.now().UTC()
	} else {
		bid = domain.Bid{
			ID:         util.NewID(),
			PaintingID: paintingID,
			UserID:     resolved.User.ID,
			Amount:     amount,
			Time:       a.now().UTC(),
			Status:     domain.BidActive,
		}
	}
	if err := a.store.SaveBid(bid); err != nil {
		return BidReceipt{}, fmt.Errorf("save bid: %w", err)
	}

	// Missing rank row means the projection has nothing yet for this
	// bid; treat it as the only bidder.
	rank, ok, err := a.store.BidRank(bid.ID)
	if err != nil {
		return BidReceipt{}, fmt.Errorf("resolve rank: %w", err)
	}
	if !ok {
		rank = 1
	}

	message := "Bid placed successfully!"
	switch {
	case resolved.IsNew:
		message = "Welcome! Your bid has been placed successfully."
	case hasOwn:
		message = "Your bid has been updated successfully!"
	}
	return BidReceipt{Bid: bid, Rank: rank, Message: message, Resolved: resolved}, nil
}

// ListPaintings returns active paintings with derived price and bidder
// counts.
func (a *App) ListPaintings() ([]domain.PaintingSummary, error) {
	return a.store.ListPaintingSummaries()
}

// UserBidInfo is the caller's own standing on a painting.
type UserBidInfo struct {
	BidAmount float64   `json:"bidAmount"`
	Rank      int       `json:"rank"`
	BidTime   time.Time `json:"bidTime"`
}

// PaintingDetail is the detail-view payload.
type PaintingDetail struct {
	Painting      domain.PaintingSummary
	AuctionActive bool
	UserBid       *UserBidInfo
}

// GetPaintingDetail returns one painting with derived fields, the window
// state, and the caller's own bid when a bearer token resolves. Invalid
// bearer tokens are ignored rather than failing the read.
func (a *App) GetPaintingDetail(paintingID, bearerToken string) (PaintingDetail, error) {
	painting, found, err := a.store.GetPainting(paintingID)
	if err != nil {
		return PaintingDetail{}, fmt.Errorf("fetch painting: %w", err)
	}
	if !found {
		return PaintingDetail{}, ErrPaintingNotFound
	}
	if painting.Status != domain.PaintingActive {
		return PaintingDetail{}, ErrPaintingNotBiddable
	}

	currentPrice, totalBidders, err := a.store.PaintingStats(paintingID)
	if err != nil {
		return PaintingDetail{}, fmt.Errorf("fetch painting stats: %w", err)
	}
	active, err := a.AuctionActive()
	if err != nil {
		return PaintingDetail{}, err
	}
	detail := PaintingDetail{
		Painting: domain.PaintingSummary{
			ID:           painting.ID,
			ArtistName:   painting.ArtistName,
			PaintingName: painting.PaintingName,
			ImageURL:     painting.ImageURL,
			BasePrice:    painting.BasePrice,
			CurrentPrice: currentPrice,
			TotalBidders: totalBidders,
		},
		AuctionActive: active,
	}

	if bearerToken != "" {
		user, err := a.UserFromToken(bearerToken)
		switch {
		case err == nil:
			bid, ok, err := a.store.GetActiveBid(paintingID, user.ID)
			if err != nil {
				return PaintingDetail{}, fmt.Errorf("fetch own bid: %w", err)
			}
			if ok {
				rank, hasRank, err := a.store.BidRank(bid.ID)
				if err != nil {
					return PaintingDetail{}, fmt.Errorf("resolve rank: %w", err)
				}
				if !hasRank {
					rank = 1
				}
				detail.UserBid = &UserBidInfo{
					BidAmount: bid.Amount,
					Rank:      rank,
					BidTime:   bid.Time,
				}
			}
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnknownSubject):
			// A bad bearer degrades to the anonymous view; only real
			// store failures propagate.
		default:
			return PaintingDetail{}, err
		}
	}
	return detail, nil
}

// UserBids returns all active bids of the user behind a mobile number.
func (a *App) UserBids(mobile string) ([]domain.UserBid, error) {
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return nil, ErrInvalidMobile
	}
	user, found, err := a.store.GetUserByMobile(mobile)
	if err != nil {
		return nil, fmt.Errorf("fetch user by mobile: %w", err)
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return a.store.ListBidsByUser(user.ID)
}
