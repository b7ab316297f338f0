package domain

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPredicates(t *testing.T) {
	owner := Principal{UserID: "s-1", Role: RoleSeller}
	otherSeller := Principal{UserID: "s-2", Role: RoleSeller}
	buyer := Principal{UserID: "b-1", Role: RoleBuyer}
	admin := Principal{UserID: "a-1", Role: RoleAdmin}
	anon := Anonymous()

	draft := &Listing{OwnerID: "s-1", Moderation: ModerationDraft}
	public := &Listing{OwnerID: "s-1", Moderation: ModerationPublished}

	assert.True(t, CanCreateListing(owner))
	assert.False(t, CanCreateListing(buyer))
	assert.False(t, CanCreateListing(anon))

	assert.True(t, CanManageListing(owner, draft))
	assert.False(t, CanManageListing(otherSeller, draft))
	assert.False(t, CanManageListing(admin, draft))
	assert.False(t, CanManageListing(Principal{Role: RoleSeller}, &Listing{}), "anonymous never owns")

	assert.True(t, CanViewListing(anon, public))
	assert.False(t, CanViewListing(anon, draft))
	assert.False(t, CanViewListing(buyer, draft))
	assert.True(t, CanViewListing(owner, draft))
	assert.True(t, CanViewListing(admin, draft))

	assert.True(t, CanModerate(admin))
	assert.False(t, CanModerate(owner))
	assert.True(t, CanEnquire(buyer))
	assert.False(t, CanEnquire(owner))
	assert.True(t, CanKeepWishlist(buyer))
	assert.True(t, CanViewAnalytics(admin))
	assert.False(t, CanViewAnalytics(buyer))
	assert.False(t, Principal{Role: RoleAdmin}.IsAdmin(), "role without identity is anonymous")
}

func TestListing_Publish(t *testing.T) {
	l := &Listing{Moderation: ModerationPendingPayment}
	now := time.Now()

	assert.True(t, l.Publish(PublishedViaPayment, now))
	assert.True(t, l.IsPublic())
	require.NotNil(t, l.PublishedVia)
	assert.Equal(t, PublishedViaPayment, *l.PublishedVia)

	assert.False(t, l.Publish(PublishedViaApproval, now.Add(time.Hour)), "second publish is a no-op")
	assert.Equal(t, PublishedViaPayment, *l.PublishedVia)
	assert.Equal(t, now, *l.PublishedAt)
}

func TestListing_ResponseFlags(t *testing.T) {
	resp := (&Listing{Moderation: ModerationPublished}).ToResponse()
	assert.True(t, resp.IsPublic)
	assert.True(t, resp.IsApproved)
	assert.NotNil(t, resp.Media)

	resp = (&Listing{Moderation: ModerationPendingPayment}).ToResponse()
	assert.False(t, resp.IsApproved)
}

func TestMediaRules_Check(t *testing.T) {
	rules := MediaRules{
		MediaImage: {MaxSize: 10 << 20, Extensions: []string{".jpg", ".jpeg", ".png", ".webp"}},
		MediaVideo: {MaxSize: 50 << 20, Extensions: []string{".mp4", ".webm"}},
	}

	tests := []struct {
		name      string
		mediaType MediaType
		filename  string
		size      int64
		wantField string
	}{
		{"jpeg ok", MediaImage, "front.JPG", 2 << 20, ""},
		{"video ok", MediaVideo, "tour.mp4", 40 << 20, ""},
		{"video extension as image", MediaImage, "tour.mp4", 1 << 20, "file"},
		{"image too big", MediaImage, "huge.png", 11 << 20, "file"},
		{"video at ceiling", MediaVideo, "tour.webm", 50 << 20, ""},
		{"empty file", MediaImage, "x.png", 0, "file"},
		{"unknown type", MediaType("AUDIO"), "song.mp3", 10, "media_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, _, ok := rules.Check(tt.mediaType, tt.filename, tt.size)
			assert.Equal(t, tt.wantField == "", ok)
			assert.Equal(t, tt.wantField, field)
		})
	}
}

func TestParseListingQuery_Defaults(t *testing.T) {
	f, errs := ParseListingQuery(url.Values{})
	require.Nil(t, errs)
	assert.Equal(t, SortNewest, f.Sort)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.False(t, f.PublicOnly, "visibility is never derived from the query")
}

func TestParseListingQuery_AllFilters(t *testing.T) {
	q := url.Values{
		"q":             {" garden "},
		"city":          {"Pune"},
		"locality":      {"Baner"},
		"price_min":     {"100000"},
		"price_max":     {"250000.50"},
		"bedrooms":      {"3"},
		"bathrooms":     {"2"},
		"property_type": {"flat"},
		"listing_type":  {"sale"},
		"status":        {"available"},
		"sort":          {"price_high"},
		"page":          {"2"},
		"page_size":     {"500"},
		"is_approved":   {"false"},
	}

	f, errs := ParseListingQuery(q)
	require.Nil(t, errs)
	assert.Equal(t, "garden", f.Query)
	assert.Equal(t, 250000.50, *f.PriceMax)
	assert.Equal(t, 3, *f.Bedrooms)
	assert.Equal(t, PropertyFlat, *f.PropertyType)
	assert.Equal(t, ListingSale, *f.ListingType)
	assert.Equal(t, StatusAvailable, *f.Status)
	assert.Equal(t, SortPriceDesc, f.Sort)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, MaxPageSize, f.Offset())
}

func TestParseListingQuery_InvalidValuesNameTheField(t *testing.T) {
	q := url.Values{
		"price_min":     {"cheap"},
		"bedrooms":      {"two"},
		"property_type": {"castle"},
		"page":          {"0"},
	}

	_, errs := ParseListingQuery(q)
	require.NotNil(t, errs)
	assert.Contains(t, errs.Fields, "price_min")
	assert.Contains(t, errs.Fields, "bedrooms")
	assert.Contains(t, errs.Fields, "property_type")
	assert.Contains(t, errs.Fields, "page")
}

func TestParseListingQuery_PageCeiling(t *testing.T) {
	_, errs := ParseListingQuery(url.Values{"page": {"9223372036854775807"}})
	require.NotNil(t, errs)
	assert.Equal(t, "must be at most 10000", errs.Fields["page"])

	f, errs := ParseListingQuery(url.Values{"page": {"10000"}, "page_size": {"100"}})
	require.Nil(t, errs)
	assert.Equal(t, (MaxPage-1)*MaxPageSize, f.Offset())
	assert.Positive(t, f.Offset())
}

func TestParseListingQuery_RangeOrder(t *testing.T) {
	_, errs := ParseListingQuery(url.Values{"price_min": {"500"}, "price_max": {"100"}})
	require.NotNil(t, errs)
	assert.Equal(t, "must not exceed price_max", errs.Fields["price_min"])
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSort("price"))
	assert.Equal(t, SortPriceAsc, ParseSort("PRICE_LOW"))
	assert.Equal(t, SortPriceDesc, ParseSort("-price"))
	assert.Equal(t, SortNewest, ParseSort("bogus"))
	assert.Equal(t, SortNewest, ParseSort(""))
}
