package model

import "time"

// Song is one uploaded audio file in the catalog. The filename doubles
// as the key into the blob store, so no two songs may share one.
type Song struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Filename  string    `json:"filename" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
