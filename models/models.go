package models

import (
	"strings"
	"time"
)

// User is the identity record. Email is the natural key; the password column
// only ever holds a bcrypt hash and is never serialized.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Email       string    `gorm:"unique" json:"email"`
	Password    string    `json:"-"` // hide from JSON response
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Property is a listing. OwnerID is nullable: a nil owner marks a listing
// that is visible to every authenticated user.
type Property struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `json:"name"`
	Location     string        `json:"location"`
	Price        float64       `gorm:"type:decimal(10,2)" json:"price"`
	Description  string        `json:"description"`
	OwnerID      *uint         `json:"owner"`
	Owner        *User         `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Reservations []Reservation `gorm:"foreignKey:PropertyID" json:"reservations,omitempty"`
	Reviews      []Review      `gorm:"foreignKey:PropertyID" json:"reviews,omitempty"`
}

// Reservation books a date range on a property for a user.
type Reservation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `json:"property"`
	Property   Property  `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     uint      `json:"user"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	StartDate  time.Time `gorm:"type:date" json:"start_date"`
	EndDate    time.Time `gorm:"type:date" json:"end_date"`
}

// Payment is the financial record for a reservation. The unique index on
// ReservationID enforces at-most-one-per-reservation at the storage layer,
// closing the race between two concurrent creates.
type Payment struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ReservationID uint        `gorm:"uniqueIndex" json:"reservation"`
	Reservation   Reservation `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"-"`
	Amount        float64     `gorm:"type:decimal(10,2)" json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Review is a rating plus comment left by a user on a property.
type Review struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	PropertyID uint     `json:"property"`
	Property   Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     uint     `json:"user"`
	User       User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Rating     int      `json:"rating"`
	Comment    string   `json:"comment"`
}

// NormalizeEmail lower-cases the domain part of an email address while
// preserving the case of the local part.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
