package model

import "time"

// User is a learner account. Token issuance lives in the account service;
// this backend stores the credential hash for provisioning only.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
