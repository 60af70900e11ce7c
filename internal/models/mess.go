package models

import "time"

// Mess represents a meal provider run by a mess owner
type Mess struct {
	ID              string       `json:"id" db:"id"`
	OwnerID         string       `json:"ownerId" db:"owner_id"`
	Name            string       `json:"name" db:"name"`
	Location        string       `json:"location" db:"location"`
	Description     *string      `json:"description" db:"description"`
	VegAvailable    bool         `json:"vegAvailable" db:"veg_available"`
	NonvegAvailable bool         `json:"nonvegAvailable" db:"nonveg_available"`
	IsActive        bool         `json:"isActive" db:"is_active"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`
	Owner           *UserSummary `json:"owner,omitempty"`
	Plans           []*Plan      `json:"plans,omitempty"`
}

// MessSummary is the short form of a mess embedded in dashboards
type MessSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Summary returns the short form of the mess
func (m *Mess) Summary() MessSummary {
	return MessSummary{ID: m.ID, Name: m.Name, Location: m.Location}
}

// IsOwnedBy returns true if userID owns the mess
func (m *Mess) IsOwnedBy(userID string) bool {
	return m.OwnerID == userID
}

// MessUpdate carries a partial mess update; nil fields are left unchanged
type MessUpdate struct {
	Name            *string
	Location        *string
	Description     *string
	VegAvailable    *bool
	NonvegAvailable *bool
	IsActive        *bool
}

// Apply copies the supplied fields onto m
func (u MessUpdate) Apply(m *Mess) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Location != nil {
		m.Location = *u.Location
	}
	if u.Description != nil {
		m.Description = u.Description
	}
	if u.VegAvailable != nil {
		m.VegAvailable = *u.VegAvailable
	}
	if u.NonvegAvailable != nil {
		m.NonvegAvailable = *u.NonvegAvailable
	}
	if u.IsActive != nil {
		m.IsActive = *u.IsActive
	}
}
