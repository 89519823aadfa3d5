package hospital

import (
	"time"

	"github.com/google/uuid"

	"github.com/carefind/carefind/internal/platform/geo"
)

// Hospital maps to the hospitals table. Rating is the arithmetic mean of all
// non-null appointment ratings referencing the hospital, rounded to one
// decimal place; zero means unrated. Distance is derived per query from the
// viewer's location and never persisted.
type Hospital struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	Image     string    `db:"image" json:"image"`
	Rating    float64   `db:"rating" json:"rating"`
	Lat       *float64  `db:"lat" json:"lat,omitempty"`
	Lng       *float64  `db:"lng" json:"lng,omitempty"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Distance  *float64  `db:"-" json:"distance,omitempty"`
	Doctors   []*Doctor `db:"-" json:"doctors"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Coordinate returns the hospital's location, or nil when either component
// is missing.
func (h *Hospital) Coordinate() *geo.Point {
	if h.Lat == nil || h.Lng == nil {
		return nil
	}
	return &geo.Point{Lat: *h.Lat, Lng: *h.Lng}
}

// HasSpecialization reports whether any attached doctor carries exactly the
// given specialization. Matching is case-sensitive string equality.
func (h *Hospital) HasSpecialization(specialization string) bool {
	for _, d := range h.Doctors {
		if d.Specialization == specialization {
			return true
		}
	}
	return false
}

// HasAvailableDoctor reports whether any attached doctor is currently
// accepting appointments.
func (h *Hospital) HasAvailableDoctor() bool {
	for _, d := range h.Doctors {
		if d.Available {
			return true
		}
	}
	return false
}

// Doctor maps to the doctors table. A doctor belongs to exactly one hospital
// and is managed from that hospital's dashboard.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization string    `db:"specialization" json:"specialization"`
	Experience     int       `db:"experience" json:"experience"`
	Rating         float64   `db:"rating" json:"rating"`
	Image          string    `db:"image" json:"image"`
	HospitalID     uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Available      bool      `db:"available" json:"available"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
