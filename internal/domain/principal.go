package domain

import "strings"

// Principal is the caller on whose behalf an operation runs.
// The zero value is an anonymous caller.
type Principal struct {
	UserID string
	Role   Role
}

// Anonymous unauthenticated caller
func Anonymous() Principal {
	return Principal{}
}

// IsAuthenticated reports a known user
func (p Principal) IsAuthenticated() bool {
	return p.UserID != ""
}

// Is reports an authenticated caller with role r
func (p Principal) Is(r Role) bool {
	return p.IsAuthenticated() && p.Role == r
}

// IsAdmin admin capability
func (p Principal) IsAdmin() bool {
	return p.Is(RoleAdmin)
}

// Authorization predicates. Services evaluate one of these before each
// mutating or restricted-read operation.

// CanCreateListing sellers create listings
func CanCreateListing(p Principal) bool {
	return p.Is(RoleSeller)
}

// CanManageListing only the owner edits, deletes, uploads media, pays for or marks a listing sold
func CanManageListing(p Principal, l *Listing) bool {
	return p.IsAuthenticated() && l != nil && l.OwnerID == p.UserID
}

// CanViewListing public listings are visible to everyone, others to their owner and admins
func CanViewListing(p Principal, l *Listing) bool {
	if l == nil {
		return false
	}
	return l.IsPublic() || p.IsAdmin() || CanManageListing(p, l)
}

// SeesUnpublished admins search across all moderation states
func SeesUnpublished(p Principal) bool {
	return p.IsAdmin()
}

// CanModerate admin approval
func CanModerate(p Principal) bool {
	return p.IsAdmin()
}

// CanEnquire buyers send enquiries
func CanEnquire(p Principal) bool {
	return p.Is(RoleBuyer)
}

// CanKeepWishlist buyers keep a wishlist
func CanKeepWishlist(p Principal) bool {
	return p.Is(RoleBuyer)
}

// CanViewAnalytics admin dashboards
func CanViewAnalytics(p Principal) bool {
	return p.IsAdmin()
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
