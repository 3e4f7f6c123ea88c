package store

import "artbid/pkg/domain"

// Store defines persistence operations for users, paintings, bids, and
// auction settings. Ranking data is derived from active bids at read time
// and never stored.
type Store interface {
	// users
	SaveUser(domain.User) error
	GetUserByID(id string) (domain.User, bool, error)
	GetUserByMobile(mobile string) (domain.User, bool, error)
	ListUsers() ([]domain.User, error)
	UserCount() (int, error)

	// paintings
	SavePainting(domain.Painting) error
	GetPainting(id string) (domain.Painting, bool, error)
	DeletePainting(id string) error
	ListPaintings() ([]domain.Painting, error)
	PaintingCount() (int, error)
	// ListPaintingSummaries returns active paintings with derived
	// current price and bidder count, newest first.
	ListPaintingSummaries() ([]domain.PaintingSummary, error)
	// PaintingStats derives the current price and distinct bidder count
	// for one painting from its active bids.
	PaintingStats(paintingID string) (currentPrice float64, totalBidders int, err error)

	// bids
	SaveBid(domain.Bid) error
	GetActiveBid(paintingID, userID string) (domain.Bid, bool, error)
	// HighestActiveBid returns the maximum active bid amount on a
	// painting; ok is false when nobody has bid.
	HighestActiveBid(paintingID string) (amount float64, ok bool, err error)
	// BidRank resolves a bid's painting-scoped rank (1 = highest) from
	// the ranking projection; ok is false when no rank row exists.
	BidRank(bidID string) (rank int, ok bool, err error)
	ListBidsByUser(userID string) ([]domain.UserBid, error)
	ListActiveBids() ([]domain.AdminBid, error)
	ActiveBidCount() (int, error)

	// auction settings
	// ActiveAuctionSettings returns the newest row flagged active.
	ActiveAuctionSettings() (domain.AuctionSettings, bool, error)
	// ReplaceAuctionSettings deactivates previous rows and inserts the
	// given settings as the active window.
	ReplaceAuctionSettings(domain.AuctionSettings) error
}
