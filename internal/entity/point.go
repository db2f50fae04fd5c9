package entity

import (
	"database/sql"
	"time"
)

// PointTransaction is append-only. A user's balance is the running sum of
// their transactions; PointBalance materializes that sum for cheap reads and
// is updated in the same database transaction as the insert.
type PointTransaction struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	// Amount is signed; credits are positive.
	Amount int64
	Reason string

	// RoundID back-references the lottery round for prize credits.
	RoundID sql.NullString
}

type PointBalance struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Points    int64
	UpdatedAt time.Time
}
