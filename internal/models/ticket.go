package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "basse"
	PriorityMedium Priority = "moyenne" // default when omitted at creation
	PriorityHigh   Priority = "haute"
)

func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

type Status string

const (
	StatusOpen       Status = "ouvert"
	StatusInProgress Status = "en_cours"
	StatusResolved   Status = "resolu"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusOpen, StatusInProgress, StatusResolved:
		return Status(s), true
	}
	return "", false
}

type Ticket struct {
	ID          int64     `json:"id"`
	Service     string    `json:"service"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	UserID      int64     `json:"userId"` // owner, set at creation, never reassigned
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Owner name/email populated by the listing JOIN, empty elsewhere.
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}
