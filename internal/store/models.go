package store

import "time"

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Mobile       string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type PaintingModel struct {
	ID           string    `gorm:"primaryKey"`
	ArtistName   string    `gorm:"not null"`
	PaintingName string    `gorm:"not null"`
	ImageURL     string    `gorm:"column:image_url"`
	BasePrice    float64   `gorm:"not null"`
	Status       string    `gorm:"not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (PaintingModel) TableName() string { return "paintings" }

type BidModel struct {
	ID         string    `gorm:"primaryKey"`
	PaintingID string    `gorm:"not null;index:idx_bids_painting_user"`
	UserID     string    `gorm:"not null;index:idx_bids_painting_user"`
	BidAmount  float64   `gorm:"not null"`
	BidTime    time.Time `gorm:"not null"`
	Status     string    `gorm:"not null;index"`
}

func (BidModel) TableName() string { return "bids" }

type AuctionSettingsModel struct {
	ID        string    `gorm:"primaryKey"`
	IsActive  bool      `gorm:"not null;index"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (AuctionSettingsModel) TableName() string { return "auction_settings" }
