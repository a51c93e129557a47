package domain

import "time"

// Artist is a tattoo artist with an optional link to one external calendar.
type Artist struct {
	ID     int64
	Name   string
	Slug   string
	Active bool

	// External calendar link. Both fields are set together or not at all.
	CalendarID          *string
	CalendarCredentials []byte // service account JSON, opaque to the core

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasExternalCalendar reports whether the artist's calendar should be consulted.
func (a *Artist) HasExternalCalendar() bool {
	return a.CalendarID != nil && *a.CalendarID != "" && len(a.CalendarCredentials) > 0
}

// ExternalCalendar returns the calendar link or nil.
func (a *Artist) ExternalCalendar() *CalendarLink {
	if !a.HasExternalCalendar() {
		return nil
	}
	return &CalendarLink{CalendarID: *a.CalendarID, Credentials: a.CalendarCredentials}
}

// CalendarLink identifies an external calendar and the credentials to reach it.
type CalendarLink struct {
	CalendarID  string
	Credentials []byte
}
