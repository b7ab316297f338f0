package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyType kind of property
type PropertyType string

const (
	PropertyHouse      PropertyType = "HOUSE"
	PropertyFlat       PropertyType = "FLAT"
	PropertyLand       PropertyType = "LAND"
	PropertyCommercial PropertyType = "COMMERCIAL"
)

// ListingType sale or rent
type ListingType string

const (
	ListingSale ListingType = "SALE"
	ListingRent ListingType = "RENT"
)

// ListingStatus lifecycle status, independent of moderation. SOLD is terminal.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "AVAILABLE"
	StatusPending   ListingStatus = "PENDING" // offer in progress
	StatusSold      ListingStatus = "SOLD"
)

// Moderation visibility state machine
//
//	draft -> pending_payment -> published (via payment)
//	draft | pending_payment  -> published (via approval)
//	pending_payment          -> draft     (payment verification failed)
type Moderation string

const (
	ModerationDraft          Moderation = "draft"
	ModerationPendingPayment Moderation = "pending_payment"
	ModerationPublished      Moderation = "published"
)

// PublishedVia how a listing became public
type PublishedVia string

const (
	PublishedViaApproval PublishedVia = "approval"
	PublishedViaPayment  PublishedVia = "payment"
)

// ParsePropertyType case-insensitive
func ParsePropertyType(s string) (PropertyType, bool) {
	switch t := PropertyType(upper(s)); t {
	case PropertyHouse, PropertyFlat, PropertyLand, PropertyCommercial:
		return t, true
	}
	return "", false
}

// ParseListingType case-insensitive
func ParseListingType(s string) (ListingType, bool) {
	switch t := ListingType(upper(s)); t {
	case ListingSale, ListingRent:
		return t, true
	}
	return "", false
}

// ParseListingStatus case-insensitive
func ParseListingStatus(s string) (ListingStatus, bool) {
	switch t := ListingStatus(upper(s)); t {
	case StatusAvailable, StatusPending, StatusSold:
		return t, true
	}
	return "", false
}

// Listing property record
type Listing struct {
	ID           string        `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	OwnerID      string        `gorm:"column:owner_id;type:varchar(36);not null;index" json:"owner_id"`
	Title        string        `gorm:"column:title;size:200;not null" json:"title"`
	Description  string        `gorm:"column:description;type:text" json:"description"`
	PropertyType PropertyType  `gorm:"column:property_type;size:20;not null;index" json:"property_type"`
	ListingType  ListingType   `gorm:"column:listing_type;size:10;not null;index" json:"listing_type"`
	Price        float64       `gorm:"column:price;type:decimal(12,2);not null;index" json:"price"`
	AreaSqft     int           `gorm:"column:area_sqft;not null" json:"area_sqft"`
	Bedrooms     int           `gorm:"column:bedrooms;not null" json:"bedrooms"`
	Bathrooms    int           `gorm:"column:bathrooms;not null" json:"bathrooms"`
	City         string        `gorm:"column:city;size:100;not null;index" json:"city"`
	Locality     string        `gorm:"column:locality;size:150;not null" json:"locality"`
	Latitude     *float64      `gorm:"column:latitude;type:decimal(9,6)" json:"latitude,omitempty"`
	Longitude    *float64      `gorm:"column:longitude;type:decimal(9,6)" json:"longitude,omitempty"`
	Status       ListingStatus `gorm:"column:status;size:20;not null;default:AVAILABLE" json:"status"`
	Moderation   Moderation    `gorm:"column:moderation;size:20;not null;default:draft;index" json:"moderation"`
	PublishedVia *PublishedVia `gorm:"column:published_via;size:20" json:"published_via,omitempty"`
	PublishedAt  *time.Time    `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Lower-cased copies for substring search. SQL LOWER() folds only ASCII on
	// sqlite, so folding happens here for every dialect.
	SearchText   string `gorm:"column:search_text;type:text" json:"-"`
	CityFold     string `gorm:"column:city_fold;size:100;index" json:"-"`
	LocalityFold string `gorm:"column:locality_fold;size:150" json:"-"`

	// Relations
	Media []Media `gorm:"foreignKey:ListingID" json:"media"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate assigns a UUID when none is set
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave refreshes the folded search columns
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	l.Fold()
	return nil
}

// Fold recomputes SearchText, CityFold and LocalityFold from the text fields
func (l *Listing) Fold() {
	l.CityFold = strings.ToLower(l.City)
	l.LocalityFold = strings.ToLower(l.Locality)
	l.SearchText = strings.ToLower(strings.Join([]string{l.Title, l.Description, l.City, l.Locality}, "\n"))
}

// IsPublic visibility is derived from moderation only
func (l *Listing) IsPublic() bool {
	return l.Moderation == ModerationPublished
}

// Publish moves the listing to published. Returns false if it already was.
func (l *Listing) Publish(via PublishedVia, at time.Time) bool {
	if l.IsPublic() {
		return false
	}
	l.Moderation = ModerationPublished
	l.PublishedVia = &via
	l.PublishedAt = &at
	return true
}

// ListingResponse API representation with derived visibility flags
type ListingResponse struct {
	*Listing
	IsPublic   bool `json:"is_public"`
	IsApproved bool `json:"is_approved"`
}

// ToResponse wraps the listing with derived fields
func (l *Listing) ToResponse() *ListingResponse {
	if l.Media == nil {
		l.Media = []Media{}
	}
	public := l.IsPublic()
	return &ListingResponse{Listing: l, IsPublic: public, IsApproved: public}
}

// ToResponses converts a slice
func ToResponses(listings []*Listing) []*ListingResponse {
	out := make([]*ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ToResponse())
	}
	return out
}

// ListingSummary compact listing used in enquiry and wishlist views
type ListingSummary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	City     string  `json:"city"`
	Locality string  `json:"locality"`
}

// Summary returns the compact form
func (l *Listing) Summary() *ListingSummary {
	return &ListingSummary{ID: l.ID, Title: l.Title, Price: l.Price, City: l.City, Locality: l.Locality}
}

// CreateListingRequest listing creation payload
type CreateListingRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Description  string   `json:"description" binding:"required"`
	PropertyType string   `json:"property_type" binding:"required"`
	ListingType  string   `json:"listing_type" binding:"required"`
	Price        float64  `json:"price" binding:"money"`
	AreaSqft     int      `json:"area_sqft" binding:"required,gt=0"`
	Bedrooms     int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms    int      `json:"bathrooms" binding:"gte=0"`
	City         string   `json:"city" binding:"required,max=100"`
	Locality     string   `json:"locality" binding:"required,max=150"`
	Latitude     *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" binding:"omitempty,longitude"`
}

// UpdateListingRequest partial update; nil fields are left unchanged
type UpdateListingRequest struct {
	Title        *string  `json:"title" binding:"omitempty,max=200"`
	Description  *string  `json:"description"`
	PropertyType *string  `json:"property_type"`
	ListingType  *string  `json:"listing_type"`
	Price        *float64 `json:"price" binding:"omitempty,money"`
	AreaSqft     *int     `json:"area_sqft" binding:"omitempty,gt=0"`
	Bedrooms     *int     `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int     `json:"bathrooms" binding:"omitempty,gte=0"`
	City         *string  `json:"city" binding:"omitempty,max=100"`
	Locality     *string  `json:"locality" binding:"omitempty,max=150"`
	Latitude     *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" binding:"omitempty,longitude"`
}

// UpdateStatusRequest lifecycle status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
