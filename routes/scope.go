package routes

import "gorm.io/gorm"

// Ownership predicates, one per entity. Every list and detail lookup goes
// through these so a foreign record resolves to "not found" rather than
// "forbidden", which would leak its existence.

// visibleProperties scopes a query to listings the user owns plus unowned
// listings, which are globally visible.
func visibleProperties(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ? OR owner_id IS NULL", userID)
	}
}

// ownReservations scopes a query to reservations made by the user.
func ownReservations(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// ownPayments scopes a query to payments whose reservation belongs to the user.
func ownPayments(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Select("payments.*").
			Joins("JOIN reservations ON reservations.id = payments.reservation_id").
			Where("reservations.user_id = ?", userID)
	}
}

// propertyReviews scopes a query to reviews for one property.
func propertyReviews(propertyID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("property_id = ?", propertyID)
	}
}
