package models

import "gorm.io/gorm"

// User represents an application account that can authenticate with the platform.
type User struct {
	gorm.Model
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	Name           string
	UnitPreference string `gorm:"type:varchar(16);default:imperial"`
	PrimaryDiet    string `gorm:"type:varchar(32);default:omnivore"`
	IsGlutenFree   bool
	IsDairyFree    bool
	FamilySize     int `gorm:"default:1"`
}

// Preference returns the user's unit preference, falling back to DefaultUnitPreference.
func (u User) Preference() UnitPreference {
	pref, err := ParseUnitPreference(u.UnitPreference)
	if err != nil {
		return DefaultUnitPreference
	}
	return pref
}
