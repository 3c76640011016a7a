package model

import (
	"strings"
	"time"
)

// RootUserName is the superuser allowed to administer other users.
const RootUserName = "root"

// User is a front-desk operator account.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsRoot reports whether u is the superuser.
func (u User) IsRoot() bool {
	return strings.EqualFold(u.Name, RootUserName)
}
