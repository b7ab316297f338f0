package domain

// CityCount listings per city
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// StatusCount payments per status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardStats admin analytics
type DashboardStats struct {
	TotalUsers       int64         `json:"total_users"`
	TotalListings    int64         `json:"total_properties"`
	ApprovedListings int64         `json:"approved_properties"`
	PendingListings  int64         `json:"pending_properties"`
	TotalEnquiries   int64         `json:"total_enquiries"`
	ListingsByCity   []CityCount   `json:"properties_by_city"`
	PaymentsByStatus []StatusCount `json:"payments_by_status"`
}

// TopCitiesLimit size of the city ranking
const TopCitiesLimit = 10
