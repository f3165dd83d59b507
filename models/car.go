package models

import "time"

const (
	StatusAvailable   = "available"
	StatusSold        = "sold"
	StatusReserved    = "reserved"
	StatusMaintenance = "maintenance"
)

// CarStatuses is the authoritative status enumeration. The persistence
// layer enforces it with a CHECK constraint; validation rejects anything
// else before it reaches the database.
var CarStatuses = []string{StatusAvailable, StatusSold, StatusReserved, StatusMaintenance}

// CarColors is the fixed palette shared with the form layer. Values are
// persisted as-is.
var CarColors = []string{
	"Blanco", "Negro", "Gris", "Gris Oscuro", "Gris Claro",
	"Rojo", "Rojo Oscuro", "Azul", "Azul Oscuro", "Azul Claro",
	"Verde", "Verde Oscuro", "Verde Claro", "Amarillo", "Naranja",
	"Morado", "Rosa", "Marrón", "Beige", "Dorado", "Plateado", "Cobre",
}

const MinCarYear = 1900

// MaxCarYear allows next year's models.
func MaxCarYear() int {
	return time.Now().Year() + 1
}

func IsValidStatus(status string) bool {
	for _, s := range CarStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidColor(color string) bool {
	for _, c := range CarColors {
		if c == color {
			return true
		}
	}
	return false
}

type Car struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	LicensePlate string    `json:"license_plate"`
	Color        string    `json:"color"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CarFilter holds the optional search parameters. Zero values mean
// "not supplied"; supplied filters combine with AND.
type CarFilter struct {
	Query  string
	Status string
	Brand  string
	Color  string
	Year   int
}

type CarStatistics struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	ByBrand  map[string]int `json:"by_brand"`
}

type BulkStatusResult struct {
	RequestedCount int `json:"requested_count"`
	UpdatedCount   int `json:"updated_count"`
}
