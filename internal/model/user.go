package model

import "time"

// User is a staff member able to register admissions. Login is by national
// ID number, as on the intranet deployment.
type User struct {
	ID             int64     `db:"id" json:"id"`
	DocumentNumber string    `db:"document_number" json:"document_number"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	RoleID         *int64    `db:"role_id" json:"role_id,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type LoginRequest struct {
	DocumentNumber string `json:"document_number" binding:"required,cedula"`
	Password       string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
