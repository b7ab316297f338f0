package domain

import "time"

// Enquiry buyer message about a listing. Only IsRead changes after creation.
type Enquiry struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	BuyerID   string    `gorm:"column:buyer_id;type:varchar(36);not null;index" json:"buyer_id"`
	ListingID string    `gorm:"column:listing_id;type:varchar(36);not null;index" json:"listing_id"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	IsRead    bool      `gorm:"column:is_read;not null" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	// Relations
	Listing *Listing `gorm:"foreignKey:ListingID" json:"-"`
	Buyer   *User    `gorm:"foreignKey:BuyerID" json:"-"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}

// CreateEnquiryRequest enquiry payload
type CreateEnquiryRequest struct {
	ListingID string `json:"listing_id" binding:"required,uuid"`
	Message   string `json:"message"`
}

// EnquiryResponse seller inbox / buyer history row
type EnquiryResponse struct {
	ID           uint64    `json:"id"`
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	BuyerID      string    `json:"buyer_id"`
	BuyerEmail   string    `json:"buyer_email,omitempty"`
	Message      string    `json:"message"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse flattens preloaded relations
func (e *Enquiry) ToResponse() *EnquiryResponse {
	resp := &EnquiryResponse{
		ID:        e.ID,
		ListingID: e.ListingID,
		BuyerID:   e.BuyerID,
		Message:   e.Message,
		IsRead:    e.IsRead,
		CreatedAt: e.CreatedAt,
	}
	if e.Listing != nil {
		resp.ListingTitle = e.Listing.Title
	}
	if e.Buyer != nil {
		resp.BuyerEmail = e.Buyer.Email
	}
	return resp
}
