package app

import (
	"errors"
	"fmt"
)

// Sentinel errors double as the user-facing messages the API returns.
var (
	// ErrUnauthenticated means no usable identity was supplied at all.
	ErrUnauthenticated = errors.New("Please provide your name and mobile number to place a bid.")
	// ErrInvalidToken covers malformed, expired, and wrongly-signed tokens.
	ErrInvalidToken = errors.New("Invalid or expired token")
	// ErrUnknownSubject means the token verified but its user is gone.
	ErrUnknownSubject = errors.New("User not found")

	ErrInvalidMobile    = errors.New("Invalid mobile number. Must be 10 digits")
	ErrNameRequired     = errors.New("Name is required")
	ErrInvalidBidAmount = errors.New("Bid amount must be a positive number")

	ErrNoActiveAuction   = errors.New("No active auction found")
	ErrAuctionNotStarted = errors.New("Auction has not started yet")
	ErrAuctionEnded      = errors.New("Auction has ended")

	ErrPaintingNotFound = errors.New("Painting not found")
	// ErrPaintingNotAvailable is the bid-path failure for a missing or
	// inactive painting.
	ErrPaintingNotAvailable = errors.New("Painting not found or not available for bidding")
	// ErrPaintingNotBiddable is the detail-path failure for an inactive
	// painting.
	ErrPaintingNotBiddable = errors.New("This painting is not available for bidding")

	ErrUserNotFound = errors.New("User not found")

	ErrMobileTaken        = errors.New("Mobile number already registered")
	ErrInvalidCredentials = errors.New("Invalid mobile number or password")
	ErrNotAdmin           = errors.New("Admin access required")

	ErrInvalidAuctionWindow = errors.New("Auction end date must be after the start date")
)

// BidBelowBaseError rejects a bid under the painting's base price.
type BidBelowBaseError struct {
	BasePrice float64
}

func (e *BidBelowBaseError) Error() string {
	return fmt.Sprintf("Bid amount must be at least ₹%v", e.BasePrice)
}

// BidNotHighEnoughError rejects a bid at or under the current highest.
type BidNotHighEnoughError struct {
	Highest float64
}

func (e *BidNotHighEnoughError) Error() string {
	return fmt.Sprintf("Bid amount must be greater than current highest bid of ₹%v", e.Highest)
}
