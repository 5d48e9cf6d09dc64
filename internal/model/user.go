// Package model defines domain entities for the application.
package model

import "time"

// Token is one entry of a user's active token collection.
type Token struct {
	Access string `json:"access"`
	Token  string `json:"token"`
}

// User is an account able to own todos.
// The password digest and active tokens are never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Tokens       []Token   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasToken reports whether token is in the user's active collection for access.
func (u *User) HasToken(access, token string) bool {
	for _, t := range u.Tokens {
		if t.Access == access && t.Token == token {
			return true
		}
	}
	return false
}
