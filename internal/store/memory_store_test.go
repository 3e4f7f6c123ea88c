package store

import (
	"testing"
	"time"

	"artbid/pkg/domain"
)

var baseTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func seedBid(t *testing.T, m *MemoryStore, id, paintingID, userID string, amount float64, offset time.Duration) {
	t.Helper()
	err := m.SaveBid(domain.Bid{
		ID:         id,
		PaintingID: paintingID,
		UserID:     userID,
		Amount:     amount,
		Time:       baseTime.Add(offset),
		Status:     domain.BidActive,
	})
	if err != nil {
		t.Fatalf("seed bid %s: %v", id, err)
	}
}

func TestBidRankTieBreaksOnTime(t *testing.T) {
	m := NewMemoryStore()
	_ = m.SavePainting(domain.Painting{ID: "p1", BasePrice: 100, Status: domain.PaintingActive})

	// Equal amounts rank by earlier bid time.
	seedBid(t, m, "b-late", "p1", "u1", 500, 2*time.Minute)
	seedBid(t, m, "b-early", "p1", "u2", 500, time.Minute)
	seedBid(t, m, "b-top", "p1", "u3", 700, 3*time.Minute)

	cases := map[string]int{"b-top": 1, "b-early": 2, "b-late": 3}
	for id, want := range cases {
		rank, ok, err := m.BidRank(id)
		if err != nil || !ok {
			t.Fatalf("rank %s: ok=%v err=%v", id, ok, err)
		}
		if rank != want {
			t.Errorf("rank(%s) = %d, want %d", id, rank, want)
		}
	}
}

func TestBidRankIgnoresWithdrawnBids(t *testing.T) {
	m := NewMemoryStore()
	_ = m.SavePainting(domain.Painting{ID: "p1", BasePrice: 100, Status: domain.PaintingActive})
	seedBid(t, m, "b1", "p1", "u1", 500, 0)
	_ = m.SaveBid(domain.Bid{ID: "b2", PaintingID: "p1", UserID: "u2", Amount: 900, Time: baseTime, Status: domain.BidWithdrawn})

	rank, ok, err := m.BidRank("b1")
	if err != nil || !ok {
		t.Fatalf("rank: ok=%v err=%v", ok, err)
	}
	if rank != 1 {
		t.Fatalf("withdrawn bid must not affect rank, got %d", rank)
	}
	if _, ok, _ := m.BidRank("b2"); ok {
		t.Fatal("withdrawn bid should not rank at all")
	}
}

func TestListPaintingSummariesDerivedFields(t *testing.T) {
	m := NewMemoryStore()
	_ = m.SavePainting(domain.Painting{ID: "p1", BasePrice: 1000, Status: domain.PaintingActive})
	_ = m.SavePainting(domain.Painting{ID: "p2", BasePrice: 2000, Status: domain.PaintingActive})
	_ = m.SavePainting(domain.Painting{ID: "p3", BasePrice: 3000, Status: domain.PaintingInactive})

	// Two distinct bidders on p1, one re-bidding user counted once.
	seedBid(t, m, "b1", "p1", "u1", 1500, 0)
	seedBid(t, m, "b2", "p1", "u2", 1800, time.Minute)

	summaries, err := m.ListPaintingSummaries()
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("inactive painting must be excluded, got %d summaries", len(summaries))
	}
	byID := map[string]domain.PaintingSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	if s := byID["p1"]; s.CurrentPrice != 1800 || s.TotalBidders != 2 {
		t.Fatalf("p1 summary wrong: %+v", s)
	}
	// No bids falls back to the base price.
	if s := byID["p2"]; s.CurrentPrice != 2000 || s.TotalBidders != 0 {
		t.Fatalf("p2 summary wrong: %+v", s)
	}
}

func TestHighestActiveBid(t *testing.T) {
	m := NewMemoryStore()
	_ = m.SavePainting(domain.Painting{ID: "p1", BasePrice: 100, Status: domain.PaintingActive})

	if _, found, _ := m.HighestActiveBid("p1"); found {
		t.Fatal("no bids should report not found")
	}
	seedBid(t, m, "b1", "p1", "u1", 500, 0)
	seedBid(t, m, "b2", "p1", "u2", 300, time.Minute)
	highest, found, err := m.HighestActiveBid("p1")
	if err != nil || !found {
		t.Fatalf("highest: found=%v err=%v", found, err)
	}
	if highest != 500 {
		t.Fatalf("highest = %v, want 500", highest)
	}
}

func TestDeletePaintingCascadesBids(t *testing.T) {
	m := NewMemoryStore()
	_ = m.SavePainting(domain.Painting{ID: "p1", BasePrice: 100, Status: domain.PaintingActive})
	_ = m.SavePainting(domain.Painting{ID: "p2", BasePrice: 100, Status: domain.PaintingActive})
	seedBid(t, m, "b1", "p1", "u1", 500, 0)
	seedBid(t, m, "b2", "p2", "u1", 500, 0)

	if err := m.DeletePainting("p1"); err != nil {
		t.Fatalf("delete painting: %v", err)
	}
	if _, found, _ := m.GetPainting("p1"); found {
		t.Fatal("painting should be gone")
	}
	if _, found, _ := m.GetActiveBid("p1", "u1"); found {
		t.Fatal("bids on the deleted painting should be gone")
	}
	if _, found, _ := m.GetActiveBid("p2", "u1"); !found {
		t.Fatal("bids on other paintings must survive")
	}
}

func TestListBidsByUserAnnotations(t *testing.T) {
	m := NewMemoryStore()
	_ = m.SavePainting(domain.Painting{ID: "p1", PaintingName: "Lady with Lamp", ArtistName: "Raja Ravi Varma", BasePrice: 1000, Status: domain.PaintingActive})
	seedBid(t, m, "b1", "p1", "u1", 1500, 0)
	seedBid(t, m, "b2", "p1", "u2", 2000, time.Minute)

	bids, err := m.ListBidsByUser("u1")
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	if len(bids) != 1 {
		t.Fatalf("expected one bid, got %d", len(bids))
	}
	got := bids[0]
	if got.Rank != 2 || got.CurrentHighestBid != 2000 {
		t.Fatalf("annotations wrong: %+v", got)
	}
	if got.Painting.Name != "Lady with Lamp" || got.Painting.Artist != "Raja Ravi Varma" {
		t.Fatalf("painting brief wrong: %+v", got.Painting)
	}
}

func TestActiveAuctionSettingsNewestWins(t *testing.T) {
	m := NewMemoryStore()

	if _, found, _ := m.ActiveAuctionSettings(); found {
		t.Fatal("empty store should have no active settings")
	}

	_ = m.ReplaceAuctionSettings(domain.AuctionSettings{ID: "w1", CreatedAt: baseTime})
	_ = m.ReplaceAuctionSettings(domain.AuctionSettings{ID: "w2", CreatedAt: baseTime.Add(time.Hour)})

	active, found, err := m.ActiveAuctionSettings()
	if err != nil || !found {
		t.Fatalf("active settings: found=%v err=%v", found, err)
	}
	if active.ID != "w2" {
		t.Fatalf("newest window should win, got %s", active.ID)
	}
}

func TestSaveUserMobileIndex(t *testing.T) {
	m := NewMemoryStore()
	_ = m.SaveUser(domain.User{ID: "u1", FirstName: "Asha", Mobile: "9812345678"})

	u, found, err := m.GetUserByMobile("9812345678")
	if err != nil || !found {
		t.Fatalf("lookup: found=%v err=%v", found, err)
	}
	if u.ID != "u1" {
		t.Fatalf("wrong user %s", u.ID)
	}
	if _, found, _ := m.GetUserByMobile("9000000000"); found {
		t.Fatal("unknown mobile should miss")
	}
}
