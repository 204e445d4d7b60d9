package model

import "time"

// Playlist is a named collection of songs.
type Playlist struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlaylistSong links one playlist to one song. The composite primary
// key makes duplicate memberships impossible; deleting either parent
// cascades into this table.
type PlaylistSong struct {
	PlaylistID int64    `json:"playlistId" gorm:"primaryKey;autoIncrement:false"`
	SongID     int64    `json:"songId" gorm:"primaryKey;autoIncrement:false"`
	Playlist   Playlist `json:"-" gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE"`
	Song       Song     `json:"-" gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE"`
}
