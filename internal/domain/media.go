package domain

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"time"
)

// MediaType image or video
type MediaType string

const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
)

// ParseMediaType case-insensitive
func ParseMediaType(s string) (MediaType, bool) {
	switch t := MediaType(upper(s)); t {
	case MediaImage, MediaVideo:
		return t, true
	}
	return "", false
}

// Media file attached to a listing
type Media struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ListingID   string    `gorm:"column:listing_id;type:varchar(36);not null;index" json:"listing_id"`
	MediaType   MediaType `gorm:"column:media_type;size:10;not null" json:"media_type"`
	StorageKey  string    `gorm:"column:storage_key;size:500;not null" json:"-"`
	URL         string    `gorm:"column:url;size:1000;not null" json:"url"`
	ContentType string    `gorm:"column:content_type;size:100" json:"content_type"`
	Size        int64     `gorm:"column:size;not null" json:"size"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Media) TableName() string {
	return "listing_media"
}

// MediaRule per-type upload policy
type MediaRule struct {
	MaxSize    int64
	Extensions []string // lower case, with leading dot
}

// MediaRules upload policy keyed by media type
type MediaRules map[MediaType]MediaRule

// Check validates a file name and size against the rule for t.
// Returned messages are suitable for a field-level validation error.
func (r MediaRules) Check(t MediaType, filename string, size int64) (field, message string, ok bool) {
	rule, found := r[t]
	if !found {
		return "media_type", "must be IMAGE or VIDEO", false
	}

	ext := strings.ToLower(path.Ext(filename))
	if !slices.Contains(rule.Extensions, ext) {
		return "file", fmt.Sprintf("extension %q not allowed for %s (allowed: %s)",
			ext, t, strings.Join(rule.Extensions, ", ")), false
	}
	if size <= 0 {
		return "file", "file is empty", false
	}
	if size > rule.MaxSize {
		return "file", fmt.Sprintf("%s exceeds the %d MB limit", strings.ToLower(string(t)), rule.MaxSize>>20), false
	}
	return "", "", true
}
