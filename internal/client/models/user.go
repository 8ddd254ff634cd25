// Package models defines the journal client's data types: the signed-in
// user and journal entries as exchanged with the API.
package models

import "time"

// User identifies the signed-in principal.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	OK   bool  `json:"ok"`
	User *User `json:"user"`
}
