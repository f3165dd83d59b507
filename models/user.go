package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	Phone        string     `json:"phone,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Role         string     `json:"role"`
	ProfilePhoto string     `json:"profile_photo,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserWithCarCount is the admin listing shape.
type UserWithCarCount struct {
	User
	CarCount int `json:"car_count"`
}

type UserStatistics struct {
	TotalUsers int            `json:"total_users"`
	ByRole     map[string]int `json:"by_role"`
	TotalCars  int            `json:"total_cars"`
}
