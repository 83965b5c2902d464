package domain

import (
	"fmt"
	"time"
)

// Gender is the profile's self-described gender.
type Gender string

const (
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
	GenderUnspecified Gender = "U"
)

// AgeGroup is an age bracket derived from a birth date.
type AgeGroup string

const (
	AgeTeens    AgeGroup = "10s"
	AgeTwenties AgeGroup = "20s"
	AgeThirties AgeGroup = "30s"
	AgeForties  AgeGroup = "40s"
	AgeFifties  AgeGroup = "50s+"
)

// BirthDateLayout is the wire format for birth dates.
const BirthDateLayout = "2006-01-02"

// UserProfile is the active user's demographic self-description. AgeGroup is
// always derived from BirthDate at save time and never set independently.
type UserProfile struct {
	Name      string   `json:"name"`
	BirthDate string   `json:"birthDate"` // YYYY-MM-DD
	Gender    Gender   `json:"gender"`
	AgeGroup  AgeGroup `json:"ageGroup"`
}

// AgeGroupFromBirthDate derives the age bracket for a birth date as of now.
func AgeGroupFromBirthDate(birthDate string, now time.Time) (AgeGroup, error) {
	birth, err := time.Parse(BirthDateLayout, birthDate)
	if err != nil {
		return "", fmt.Errorf("invalid birth date %q: %w", birthDate, err)
	}

	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}

	switch {
	case age < 20:
		return AgeTeens, nil
	case age < 30:
		return AgeTwenties, nil
	case age < 40:
		return AgeThirties, nil
	case age < 50:
		return AgeForties, nil
	default:
		return AgeFifties, nil
	}
}

// User is a demo account stored in the users table. Purchase history is keyed
// by its ID; a saved profile is matched back to one via name/birth date/gender.
type User struct {
	ID        int      `json:"id" db:"user_id"`
	Name      string   `json:"name" db:"name"`
	BirthDate string   `json:"birthDate" db:"birth_date"`
	Gender    Gender   `json:"gender" db:"gender"`
	AgeGroup  AgeGroup `json:"ageGroup" db:"age_group"`
}
