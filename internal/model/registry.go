package model

import "time"

// Client is a hotel guest.
type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"column:name;size:256;not null;index" json:"fullName"`
	Contact   string    `gorm:"size:128" json:"contact"`
	Passport  string    `gorm:"uniqueIndex;size:64;not null" json:"passport"`
	Birthdate Day       `gorm:"size:10" json:"birthdate"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BlacklistEntry marks a client as ineligible for new reservations.
// A client appears on the blacklist at most once.
type BlacklistEntry struct {
	ClientID  int64     `gorm:"primaryKey;autoIncrement:false" json:"clientId"`
	Reason    string    `gorm:"size:512;not null" json:"reason"`
	CreatedAt time.Time `json:"createdAt"`

	Client *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
}

// TableName keeps the table name of the front-desk schema.
func (BlacklistEntry) TableName() string { return "blacklist" }
