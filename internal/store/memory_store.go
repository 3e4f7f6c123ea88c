package store

import (
	"sort"
	"sync"

	"artbid/pkg/domain"
)

// MemoryStore keeps everything in-process. It backs tests and local
// development and mirrors GormStore semantics, including derived
// painting stats and read-time bid ranking.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	mobile    map[string]string // mobile -> user ID
	userOrder []string
	paintings map[string]domain.Painting
	paintOrd  []string
	bids      map[string]domain.Bid
	settings  []domain.AuctionSettings
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]domain.User),
		mobile:    make(map[string]string),
		paintings: make(map[string]domain.Painting),
		bids:      make(map[string]domain.Bid),
	}
}

// SaveUser creates or updates a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.ID]; !exists {
		m.userOrder = append(m.userOrder, u.ID)
	}
	m.users[u.ID] = u
	m.mobile[u.Mobile] = u.ID
	return nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByMobile looks up a user by mobile number.
func (m *MemoryStore) GetUserByMobile(mobile string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.mobile[mobile]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

// ListUsers returns users in creation order.
func (m *MemoryStore) ListUsers() ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		if u, ok := m.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

// UserCount returns the number of users.
func (m *MemoryStore) UserCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// SavePainting creates or updates a painting.
func (m *MemoryStore) SavePainting(p domain.Painting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.paintings[p.ID]; !exists {
		m.paintOrd = append(m.paintOrd, p.ID)
	}
	m.paintings[p.ID] = p
	return nil
}

// GetPainting retrieves a painting.
func (m *MemoryStore) GetPainting(id string) (domain.Painting, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.paintings[id]
	return p, ok, nil
}

// DeletePainting removes a painting and its bids.
func (m *MemoryStore) DeletePainting(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.paintings, id)
	filtered := m.paintOrd[:0]
	for _, item := range m.paintOrd {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	m.paintOrd = filtered
	for bidID, b := range m.bids {
		if b.PaintingID == id {
			delete(m.bids, bidID)
		}
	}
	return nil
}

// ListPaintings returns all paintings, newest first.
func (m *MemoryStore) ListPaintings() ([]domain.Painting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Painting, 0, len(m.paintOrd))
	for i := len(m.paintOrd) - 1; i >= 0; i-- {
		if p, ok := m.paintings[m.paintOrd[i]]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

// PaintingCount returns the number of paintings.
func (m *MemoryStore) PaintingCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.paintings), nil
}

// ListPaintingSummaries returns active paintings with derived fields.
func (m *MemoryStore) ListPaintingSummaries() ([]domain.PaintingSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.PaintingSummary, 0, len(m.paintOrd))
	for i := len(m.paintOrd) - 1; i >= 0; i-- {
		p, ok := m.paintings[m.paintOrd[i]]
		if !ok || p.Status != domain.PaintingActive {
			continue
		}
		price, bidders := m.statsLocked(p)
		res = append(res, domain.PaintingSummary{
			ID:           p.ID,
			ArtistName:   p.ArtistName,
			PaintingName: p.PaintingName,
			ImageURL:     p.ImageURL,
			BasePrice:    p.BasePrice,
			CurrentPrice: price,
			TotalBidders: bidders,
		})
	}
	return res, nil
}

// PaintingStats derives current price and bidder count for one painting.
func (m *MemoryStore) PaintingStats(paintingID string) (float64, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.paintings[paintingID]
	if !ok {
		return 0, 0, nil
	}
	price, bidders := m.statsLocked(p)
	return price, bidders, nil
}

func (m *MemoryStore) statsLocked(p domain.Painting) (float64, int) {
	price := p.BasePrice
	bidders := make(map[string]struct{})
	for _, b := range m.bids {
		if b.PaintingID != p.ID || b.Status != domain.BidActive {
			continue
		}
		bidders[b.UserID] = struct{}{}
		if b.Amount > price {
			price = b.Amount
		}
	}
	return price, len(bidders)
}

// SaveBid creates or updates a bid.
func (m *MemoryStore) SaveBid(b domain.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bids[b.ID] = b
	return nil
}

// GetActiveBid returns the caller's active bid on a painting, if any.
func (m *MemoryStore) GetActiveBid(paintingID, userID string) (domain.Bid, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bids {
		if b.PaintingID == paintingID && b.UserID == userID && b.Status == domain.BidActive {
			return b, true, nil
		}
	}
	return domain.Bid{}, false, nil
}

// HighestActiveBid returns the maximum active bid amount on a painting.
func (m *MemoryStore) HighestActiveBid(paintingID string) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	highest := 0.0
	found := false
	for _, b := range m.bids {
		if b.PaintingID != paintingID || b.Status != domain.BidActive {
			continue
		}
		if !found || b.Amount > highest {
			highest = b.Amount
			found = true
		}
	}
	return highest, found, nil
}

// rankedLocked returns the active bids of a painting in ranking order:
// amount descending, earlier bid_time breaking ties.
func (m *MemoryStore) rankedLocked(paintingID string) []domain.Bid {
	ranked := make([]domain.Bid, 0)
	for _, b := range m.bids {
		if b.PaintingID == paintingID && b.Status == domain.BidActive {
			ranked = append(ranked, b)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].Time.Before(ranked[j].Time)
	})
	return ranked
}

// BidRank resolves a bid's painting-scoped rank.
func (m *MemoryStore) BidRank(bidID string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bids[bidID]
	if !ok || b.Status != domain.BidActive {
		return 0, false, nil
	}
	for i, ranked := range m.rankedLocked(b.PaintingID) {
		if ranked.ID == bidID {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

// ListBidsByUser returns a user's active bids annotated for display,
// newest first.
func (m *MemoryStore) ListBidsByUser(userID string) ([]domain.UserBid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	own := make([]domain.Bid, 0)
	for _, b := range m.bids {
		if b.UserID == userID && b.Status == domain.BidActive {
			own = append(own, b)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].Time.After(own[j].Time) })
	res := make([]domain.UserBid, 0, len(own))
	for _, b := range own {
		p := m.paintings[b.PaintingID]
		highest := p.BasePrice
		rank := 999
		for i, ranked := range m.rankedLocked(b.PaintingID) {
			if i == 0 && ranked.Amount > highest {
				highest = ranked.Amount
			}
			if ranked.ID == b.ID {
				rank = i + 1
			}
		}
		res = append(res, domain.UserBid{
			ID:                b.ID,
			Amount:            b.Amount,
			Time:              b.Time,
			Rank:              rank,
			CurrentHighestBid: highest,
			Painting: domain.PaintingBrief{
				ID:       p.ID,
				Name:     p.PaintingName,
				Artist:   p.ArtistName,
				ImageURL: p.ImageURL,
			},
		})
	}
	return res, nil
}

// ListActiveBids returns all active bids annotated for the admin view.
func (m *MemoryStore) ListActiveBids() ([]domain.AdminBid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.AdminBid, 0, len(m.bids))
	for _, paintingID := range m.paintOrd {
		p, ok := m.paintings[paintingID]
		if !ok {
			continue
		}
		for i, b := range m.rankedLocked(paintingID) {
			u := m.users[b.UserID]
			res = append(res, domain.AdminBid{
				ID:     b.ID,
				Amount: b.Amount,
				Time:   b.Time,
				Rank:   i + 1,
				Painting: domain.PaintingBrief{
					ID:       p.ID,
					Name:     p.PaintingName,
					Artist:   p.ArtistName,
					ImageURL: p.ImageURL,
				},
				User: domain.BidderBrief{
					ID:        u.ID,
					FirstName: u.FirstName,
					LastName:  u.LastName,
					Mobile:    u.Mobile,
				},
			})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Amount != res[j].Amount {
			return res[i].Amount > res[j].Amount
		}
		return res[i].Time.Before(res[j].Time)
	})
	return res, nil
}

// ActiveBidCount returns the number of active bids.
func (m *MemoryStore) ActiveBidCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, b := range m.bids {
		if b.Status == domain.BidActive {
			count++
		}
	}
	return count, nil
}

// ActiveAuctionSettings returns the newest active settings row.
func (m *MemoryStore) ActiveAuctionSettings() (domain.AuctionSettings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var newest domain.AuctionSettings
	found := false
	for _, s := range m.settings {
		if !s.IsActive {
			continue
		}
		if !found || s.CreatedAt.After(newest.CreatedAt) {
			newest = s
			found = true
		}
	}
	return newest, found, nil
}

// ReplaceAuctionSettings deactivates previous windows and stores the new one.
func (m *MemoryStore) ReplaceAuctionSettings(settings domain.AuctionSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.settings {
		m.settings[i].IsActive = false
	}
	settings.IsActive = true
	m.settings = append(m.settings, settings)
	return nil
}
