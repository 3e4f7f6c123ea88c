package domain

import "time"

type PaintingStatus string

const (
	PaintingActive   PaintingStatus = "active"
	PaintingInactive PaintingStatus = "inactive"
	PaintingSold     PaintingStatus = "sold"
)

type BidStatus string

const (
	BidActive    BidStatus = "active"
	BidWithdrawn BidStatus = "withdrawn"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Name returns the display name shown alongside bids.
func (u User) Name() string {
	return u.FirstName + " " + u.LastName
}

type Painting struct {
	ID           string         `json:"id"`
	ArtistName   string         `json:"artistName"`
	PaintingName string         `json:"paintingName"`
	ImageURL     string         `json:"imageUrl"`
	BasePrice    float64        `json:"basePrice"`
	Status       PaintingStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// PaintingSummary is a painting annotated with fields derived from its
// active bids. CurrentPrice falls back to the base price when nobody
// has bid yet.
type PaintingSummary struct {
	ID           string  `json:"id"`
	ArtistName   string  `json:"artistName"`
	PaintingName string  `json:"paintingName"`
	ImageURL     string  `json:"imageUrl"`
	BasePrice    float64 `json:"basePrice"`
	CurrentPrice float64 `json:"currentPrice"`
	TotalBidders int     `json:"totalBidders"`
}

type Bid struct {
	ID         string    `json:"id"`
	PaintingID string    `json:"paintingId"`
	UserID     string    `json:"userId"`
	Amount     float64   `json:"bidAmount"`
	Time       time.Time `json:"bidTime"`
	Status     BidStatus `json:"status"`
}

// UserBid is a bid annotated for the "my bids" listing: painting-scoped
// rank, the current highest amount on that painting, and a compact
// painting shape for display.
type UserBid struct {
	ID                string        `json:"id"`
	Amount            float64       `json:"bidAmount"`
	Time              time.Time     `json:"bidTime"`
	Rank              int           `json:"rank"`
	CurrentHighestBid float64       `json:"currentHighestBid"`
	Painting          PaintingBrief `json:"painting"`
}

// PaintingBrief is the compact painting shape embedded in bid listings.
type PaintingBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	ImageURL string `json:"imageUrl"`
}

// AdminBid is a bid annotated for the admin dashboard.
type AdminBid struct {
	ID       string        `json:"id"`
	Amount   float64       `json:"bidAmount"`
	Time     time.Time     `json:"bidTime"`
	Rank     int           `json:"rank"`
	Painting PaintingBrief `json:"painting"`
	User     BidderBrief   `json:"user"`
}

// BidderBrief is the compact user shape embedded in admin bid listings.
type BidderBrief struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mobile    string `json:"mobile"`
}

// AuctionSettings defines the bidding window. The row flagged active
// with the newest CreatedAt is the one the gate consults.
type AuctionSettings struct {
	ID        string    `json:"id"`
	IsActive  bool      `json:"isActive"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// Open reports whether the window contains the given instant.
func (s AuctionSettings) Open(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}
