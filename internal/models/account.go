package models

import "time"

// Account represents a registered member of the study site.
type Account struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Nickname   string    `json:"nickname" gorm:"uniqueIndex;type:varchar(20);not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password   string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Bio        *string   `json:"bio,omitempty" gorm:"type:varchar(35)"`
	URL        *string   `json:"url,omitempty" gorm:"column:url;type:varchar(50)"`
	Occupation *string   `json:"occupation,omitempty" gorm:"type:varchar(50)"`
	Location   *string   `json:"location,omitempty" gorm:"type:varchar(50)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Profile holds the editable profile columns of an account.
// A nil field is stored as NULL.
type Profile struct {
	Bio        *string
	URL        *string
	Occupation *string
	Location   *string
}

// Profile returns the account's current profile columns.
func (a *Account) Profile() Profile {
	return Profile{
		Bio:        a.Bio,
		URL:        a.URL,
		Occupation: a.Occupation,
		Location:   a.Location,
	}
}

// ApplyProfile copies the profile columns onto the account.
func (a *Account) ApplyProfile(p Profile) {
	a.Bio = p.Bio
	a.URL = p.URL
	a.Occupation = p.Occupation
	a.Location = p.Location
}
