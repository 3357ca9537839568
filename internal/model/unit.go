package model

import "time"

// Unit is a chapter of the question bank. Sessions reference units by id;
// unit content itself is managed by the admin surface.
type Unit struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
