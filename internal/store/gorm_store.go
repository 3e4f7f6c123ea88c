package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"artbid/pkg/domain"
)

// rankingViewDDL materializes the per-painting bid ordering as a queryable
// projection over active bids: amount descending, earlier bid wins ties.
const rankingViewDDL = `
CREATE OR REPLACE VIEW user_bid_rankings AS
SELECT id AS bid_id,
       painting_id,
       RANK() OVER (PARTITION BY painting_id ORDER BY bid_amount DESC, bid_time ASC) AS rank
FROM bids
WHERE status = 'active'`

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB, runs auto-migrations, and (re)creates the
// ranking view.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &PaintingModel{}, &BidModel{}, &AuctionSettingsModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec(rankingViewDDL).Error; err != nil {
		return nil, fmt.Errorf("create ranking view: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser creates or updates a user.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "mobile", "password_hash", "role"}),
	}).Create(&model).Error
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByMobile looks up a user by mobile number.
func (s *GormStore) GetUserByMobile(mobile string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "mobile = ?", mobile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// ListUsers returns all users ordered by created_at.
func (s *GormStore) ListUsers() ([]domain.User, error) {
	var models []UserModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.User, 0, len(models))
	for _, m := range models {
		res = append(res, userFromModel(m))
	}
	return res, nil
}

// UserCount returns the number of users.
func (s *GormStore) UserCount() (int, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// SavePainting creates or updates a painting.
func (s *GormStore) SavePainting(p domain.Painting) error {
	model := paintingToModel(p)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"artist_name", "painting_name", "image_url", "base_price", "status", "updated_at"}),
	}).Create(&model).Error
}

// GetPainting retrieves a painting.
func (s *GormStore) GetPainting(id string) (domain.Painting, bool, error) {
	var model PaintingModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Painting{}, false, nil
		}
		return domain.Painting{}, false, err
	}
	return paintingFromModel(model), true, nil
}

// DeletePainting removes a painting and its bids.
func (s *GormStore) DeletePainting(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&BidModel{}, "painting_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&PaintingModel{}, "id = ?", id).Error
	})
}

// ListPaintings returns all paintings regardless of status, newest first.
func (s *GormStore) ListPaintings() ([]domain.Painting, error) {
	var models []PaintingModel
	if err := s.db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Painting, 0, len(models))
	for _, m := range models {
		res = append(res, paintingFromModel(m))
	}
	return res, nil
}

// PaintingCount returns the number of paintings.
func (s *GormStore) PaintingCount() (int, error) {
	var count int64
	if err := s.db.Model(&PaintingModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

type paintingSummaryRow struct {
	ID           string
	ArtistName   string
	PaintingName string
	ImageURL     string `gorm:"column:image_url"`
	BasePrice    float64
	CurrentPrice float64
	TotalBidders int
}

// ListPaintingSummaries returns active paintings with derived fields.
func (s *GormStore) ListPaintingSummaries() ([]domain.PaintingSummary, error) {
	var rows []paintingSummaryRow
	err := s.db.Raw(`
SELECT p.id,
       p.artist_name,
       p.painting_name,
       p.image_url,
       p.base_price,
       COALESCE(MAX(b.bid_amount), p.base_price) AS current_price,
       COUNT(DISTINCT b.user_id) AS total_bidders
FROM paintings p
LEFT JOIN bids b ON p.id = b.painting_id AND b.status = 'active'
WHERE p.status = 'active'
GROUP BY p.id
ORDER BY p.created_at DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.PaintingSummary, 0, len(rows))
	for _, r := range rows {
		res = append(res, domain.PaintingSummary{
			ID:           r.ID,
			ArtistName:   r.ArtistName,
			PaintingName: r.PaintingName,
			ImageURL:     r.ImageURL,
			BasePrice:    r.BasePrice,
			CurrentPrice: r.CurrentPrice,
			TotalBidders: r.TotalBidders,
		})
	}
	return res, nil
}

// PaintingStats derives current price and bidder count for one painting.
func (s *GormStore) PaintingStats(paintingID string) (float64, int, error) {
	var row struct {
		CurrentPrice float64
		TotalBidders int
	}
	err := s.db.Raw(`
SELECT COALESCE(MAX(b.bid_amount), p.base_price) AS current_price,
       COUNT(DISTINCT b.user_id) AS total_bidders
FROM paintings p
LEFT JOIN bids b ON p.id = b.painting_id AND b.status = 'active'
WHERE p.id = ?
GROUP BY p.id`, paintingID).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.CurrentPrice, row.TotalBidders, nil
}

// SaveBid creates or updates a bid row.
func (s *GormStore) SaveBid(b domain.Bid) error {
	model := bidToModel(b)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bid_amount", "bid_time", "status"}),
	}).Create(&model).Error
}

// GetActiveBid returns the caller's active bid on a painting, if any.
func (s *GormStore) GetActiveBid(paintingID, userID string) (domain.Bid, bool, error) {
	var model BidModel
	err := s.db.First(&model, "painting_id = ? AND user_id = ? AND status = ?", paintingID, userID, string(domain.BidActive)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Bid{}, false, nil
		}
		return domain.Bid{}, false, err
	}
	return bidFromModel(model), true, nil
}

// HighestActiveBid returns the maximum active bid amount on a painting.
func (s *GormStore) HighestActiveBid(paintingID string) (float64, bool, error) {
	var row struct {
		HighestBid *float64
	}
	err := s.db.Raw(`
SELECT MAX(bid_amount) AS highest_bid
FROM bids
WHERE painting_id = ? AND status = 'active'`, paintingID).Scan(&row).Error
	if err != nil {
		return 0, false, err
	}
	if row.HighestBid == nil {
		return 0, false, nil
	}
	return *row.HighestBid, true, nil
}

// BidRank reads a bid's rank from the ranking projection.
func (s *GormStore) BidRank(bidID string) (int, bool, error) {
	var rows []struct {
		Rank int
	}
	err := s.db.Raw(`SELECT rank FROM user_bid_rankings WHERE bid_id = ?`, bidID).Scan(&rows).Error
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Rank, true, nil
}

type userBidRow struct {
	ID                string
	BidAmount         float64
	BidTime           time.Time
	PaintingID        string
	PaintingName      string
	ArtistName        string
	ImageURL          string `gorm:"column:image_url"`
	Rank              int
	CurrentHighestBid float64
}

// ListBidsByUser returns a user's active bids annotated with painting
// summary, rank, and the current highest amount on each painting.
func (s *GormStore) ListBidsByUser(userID string) ([]domain.UserBid, error) {
	var rows []userBidRow
	err := s.db.Raw(`
SELECT b.id,
       b.bid_amount,
       b.bid_time,
       p.id AS painting_id,
       p.painting_name,
       p.artist_name,
       p.image_url,
       COALESCE(r.rank, 999) AS rank,
       COALESCE((SELECT MAX(b2.bid_amount) FROM bids b2 WHERE b2.painting_id = p.id AND b2.status = 'active'), p.base_price) AS current_highest_bid
FROM bids b
JOIN paintings p ON b.painting_id = p.id
LEFT JOIN user_bid_rankings r ON b.id = r.bid_id
WHERE b.user_id = ? AND b.status = 'active'
ORDER BY b.bid_time DESC`, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.UserBid, 0, len(rows))
	for _, r := range rows {
		res = append(res, domain.UserBid{
			ID:                r.ID,
			Amount:            r.BidAmount,
			Time:              r.BidTime,
			Rank:              r.Rank,
			CurrentHighestBid: r.CurrentHighestBid,
			Painting: domain.PaintingBrief{
				ID:       r.PaintingID,
				Name:     r.PaintingName,
				Artist:   r.ArtistName,
				ImageURL: r.ImageURL,
			},
		})
	}
	return res, nil
}

type adminBidRow struct {
	ID           string
	BidAmount    float64
	BidTime      time.Time
	Rank         int
	PaintingID   string
	PaintingName string
	ArtistName   string
	ImageURL     string `gorm:"column:image_url"`
	UserID       string
	FirstName    string
	LastName     string
	Mobile       string
}

// ListActiveBids returns every active bid annotated for the admin view,
// highest amounts first.
func (s *GormStore) ListActiveBids() ([]domain.AdminBid, error) {
	var rows []adminBidRow
	err := s.db.Raw(`
SELECT b.id,
       b.bid_amount,
       b.bid_time,
       COALESCE(r.rank, 999) AS rank,
       p.id AS painting_id,
       p.painting_name,
       p.artist_name,
       p.image_url,
       u.id AS user_id,
       u.first_name,
       u.last_name,
       u.mobile
FROM bids b
JOIN paintings p ON b.painting_id = p.id
JOIN users u ON b.user_id = u.id
LEFT JOIN user_bid_rankings r ON b.id = r.bid_id
WHERE b.status = 'active'
ORDER BY b.bid_amount DESC, b.bid_time ASC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.AdminBid, 0, len(rows))
	for _, r := range rows {
		res = append(res, domain.AdminBid{
			ID:     r.ID,
			Amount: r.BidAmount,
			Time:   r.BidTime,
			Rank:   r.Rank,
			Painting: domain.PaintingBrief{
				ID:       r.PaintingID,
				Name:     r.PaintingName,
				Artist:   r.ArtistName,
				ImageURL: r.ImageURL,
			},
			User: domain.BidderBrief{
				ID:        r.UserID,
				FirstName: r.FirstName,
				LastName:  r.LastName,
				Mobile:    r.Mobile,
			},
		})
	}
	return res, nil
}

// ActiveBidCount returns the number of active bids.
func (s *GormStore) ActiveBidCount() (int, error) {
	var count int64
	if err := s.db.Model(&BidModel{}).Where("status = ?", string(domain.BidActive)).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ActiveAuctionSettings returns the newest active settings row.
func (s *GormStore) ActiveAuctionSettings() (domain.AuctionSettings, bool, error) {
	var model AuctionSettingsModel
	err := s.db.Where("is_active = ?", true).Order("created_at DESC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuctionSettings{}, false, nil
		}
		return domain.AuctionSettings{}, false, err
	}
	return settingsFromModel(model), true, nil
}

// ReplaceAuctionSettings deactivates previous windows and stores the new one.
func (s *GormStore) ReplaceAuctionSettings(settings domain.AuctionSettings) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&AuctionSettingsModel{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return err
		}
		model := settingsToModel(settings)
		model.IsActive = true
		return tx.Create(&model).Error
	})
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Mobile:       u.Mobile,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Mobile:       m.Mobile,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func paintingToModel(p domain.Painting) PaintingModel {
	return PaintingModel{
		ID:           p.ID,
		ArtistName:   p.ArtistName,
		PaintingName: p.PaintingName,
		ImageURL:     p.ImageURL,
		BasePrice:    p.BasePrice,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func paintingFromModel(m PaintingModel) domain.Painting {
	return domain.Painting{
		ID:           m.ID,
		ArtistName:   m.ArtistName,
		PaintingName: m.PaintingName,
		ImageURL:     m.ImageURL,
		BasePrice:    m.BasePrice,
		Status:       domain.PaintingStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func bidToModel(b domain.Bid) BidModel {
	return BidModel{
		ID:         b.ID,
		PaintingID: b.PaintingID,
		UserID:     b.UserID,
		BidAmount:  b.Amount,
		BidTime:    b.Time,
		Status:     string(b.Status),
	}
}

func bidFromModel(m BidModel) domain.Bid {
	return domain.Bid{
		ID:         m.ID,
		PaintingID: m.PaintingID,
		UserID:     m.UserID,
		Amount:     m.BidAmount,
		Time:       m.BidTime,
		Status:     domain.BidStatus(m.Status),
	}
}

func settingsToModel(s domain.AuctionSettings) AuctionSettingsModel {
	return AuctionSettingsModel{
		ID:        s.ID,
		IsActive:  s.IsActive,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		CreatedAt: s.CreatedAt,
	}
}

func settingsFromModel(m AuctionSettingsModel) domain.AuctionSettings {
	return domain.AuctionSettings{
		ID:        m.ID,
		IsActive:  m.IsActive,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		CreatedAt: m.CreatedAt,
	}
}
