package domain

import "time"

// WishlistEntry saved listing; (BuyerID, ListingID) is unique
type WishlistEntry struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	BuyerID   string    `gorm:"column:buyer_id;type:varchar(36);not null;uniqueIndex:idx_wishlist_buyer_listing" json:"buyer_id"`
	ListingID string    `gorm:"column:listing_id;type:varchar(36);not null;uniqueIndex:idx_wishlist_buyer_listing;index" json:"listing_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Relations
	Listing *Listing `gorm:"foreignKey:ListingID" json:"-"`
}

func (WishlistEntry) TableName() string {
	return "wishlist_entries"
}

// WishlistItemResponse wishlist row with listing summary
type WishlistItemResponse struct {
	ID        uint64          `json:"id"`
	Listing   *ListingSummary `json:"listing"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToResponse flattens the preloaded listing
func (w *WishlistEntry) ToResponse() *WishlistItemResponse {
	resp := &WishlistItemResponse{ID: w.ID, CreatedAt: w.CreatedAt}
	if w.Listing != nil {
		resp.Listing = w.Listing.Summary()
	} else {
		resp.Listing = &ListingSummary{ID: w.ListingID}
	}
	return resp
}
