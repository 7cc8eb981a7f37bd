package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run ensures the schema exists. Columns are only ever added, never dropped.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&userRecord{})
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	Name           string    `gorm:"column:name;type:text;not null"`
	Email          string    `gorm:"column:email;type:text;not null"`
	Phone          string    `gorm:"column:phone;type:text;not null"`
	City           string    `gorm:"column:city;type:text;not null"`
	Country        string    `gorm:"column:country;type:text;not null"`
	ProfilePicture *string   `gorm:"column:profile_picture;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (userRecord) TableName() string { return "users" }
