// Package models holds the client-resident data types.
package models

import (
	"time"
)

type Category string

const (
	CategoryProspect Category = "prospect"
	CategoryPartner  Category = "partner"
	CategoryClient   Category = "client"
	CategoryVendor   Category = "vendor"
	CategoryInvestor Category = "investor"
	CategoryOther    Category = "other"
)

var Categories = []Category{
	CategoryProspect, CategoryPartner, CategoryClient, CategoryVendor, CategoryInvestor, CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type ConnectionStatus string

const (
	StatusInitial   ConnectionStatus = "initial"
	StatusContacted ConnectionStatus = "contacted"
	StatusActive    ConnectionStatus = "active"
	StatusFollowUp  ConnectionStatus = "follow-up"
	StatusClosed    ConnectionStatus = "closed"
)

var ConnectionStatuses = []ConnectionStatus{
	StatusInitial, StatusContacted, StatusActive, StatusFollowUp, StatusClosed,
}

func (s ConnectionStatus) Valid() bool {
	for _, v := range ConnectionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Sub-entry defaults.
const (
	MeetingScheduled = "scheduled"
	ReminderPending  = "pending"
)

type Note struct {
	ID     int64     `json:"id"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
	Author string    `json:"author"`
}

// Meeting dates and times are kept as entered ("2006-01-02", "15:04").
type Meeting struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Reminder struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Priority  Priority  `json:"priority"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contact is a scanned company profile plus the local relationship record.
// At most one Contact exists per CompanyID.
type Contact struct {
	CompanyID        int64            `json:"companyId"`
	Name             string           `json:"name"`
	Industry         string           `json:"industry"`
	Description      string           `json:"description"`
	ContactEmail     string           `json:"contactEmail"`
	ContactPhone     string           `json:"contactPhone"`
	Website          string           `json:"website"`
	Address          string           `json:"address"`
	Category         Category         `json:"category"`
	ConnectionStatus ConnectionStatus `json:"connectionStatus"`
	SavedAt          time.Time        `json:"savedAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	Notes            []Note           `json:"notes"`
	Meetings         []Meeting        `json:"meetings"`
	Reminders        []Reminder       `json:"reminders"`
}

// Filter selects contacts. Empty or "all" disables Category and Industry.
type Filter struct {
	SearchTerm string
	Category   string
	Industry   string
}
