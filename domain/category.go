package domain

import (
	"time"
)

// CREATE TABLE categories (
//     id           BIGSERIAL PRIMARY KEY,
//     name         TEXT NOT NULL UNIQUE,
//     description  TEXT,
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}
