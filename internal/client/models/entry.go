package models

import (
	"strings"
	"time"
)

// Entry is a single journal record. Title may be nil but is never an
// empty string; Body is never empty for a persisted entry.
type Entry struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title"`
	Body        string    `json:"body"`
	TimeCreated time.Time `json:"timeCreated"`
	TimeUpdated time.Time `json:"timeUpdated"`
}

// DisplayTitle returns the title or "(untitled)".
func (e Entry) DisplayTitle() string {
	if e.Title == nil || *e.Title == "" {
		return "(untitled)"
	}
	return *e.Title
}

// EntryCreate is the body of POST /entries. Title is always sent, null when
// absent.
type EntryCreate struct {
	Title *string `json:"title"`
	Body  string  `json:"body"`
}

// EntryUpdate is the body of PUT /entries/{id}.
//
// Fields left unset are omitted from the JSON. ClearTitle sends an explicit
// "title": null instead.
type EntryUpdate struct {
	Title      *string
	Body       *string
	ClearTitle bool
}

// Fields returns the wire representation of the update.
func (u EntryUpdate) Fields() map[string]any {
	m := make(map[string]any, 2)
	switch {
	case u.ClearTitle:
		m["title"] = nil
	case u.Title != nil:
		m["title"] = *u.Title
	}
	if u.Body != nil {
		m["body"] = *u.Body
	}
	return m
}

// DeleteResponse is the body of DELETE /entries/{id}.
type DeleteResponse struct {
	OK bool `json:"ok"`
}

// NormalizeTitle trims s and maps the blank result to nil.
func NormalizeTitle(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
