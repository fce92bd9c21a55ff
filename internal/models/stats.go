package models

// TicketCounts buckets tickets by status. Unknown statuses count only in
// Total.
type TicketCounts struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Closed     int64 `json:"closed"`
}

type UserCount struct {
	Total int64 `json:"total"`
}

type ServiceCount struct {
	Service string `json:"service"`
	Count   int64  `json:"count"`
}

// DashboardStats is the role-scoped aggregate. Sections absent for a role
// are omitted from the JSON body; a manager without a service gets an empty
// object.
type DashboardStats struct {
	Tickets  *TicketCounts  `json:"tickets,omitempty"`
	Users    *UserCount     `json:"users,omitempty"`
	Services []ServiceCount `json:"services,omitempty"`
	Service  string         `json:"service,omitempty"`
}
