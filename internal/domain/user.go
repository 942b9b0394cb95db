package domain

import "time"

// AccountType is the role attached to every account.
type AccountType string

const (
	AccountRegular   AccountType = "regular"
	AccountOrganizer AccountType = "organizer"
	AccountAdmin     AccountType = "admin"
)

// AccountStatus represents lifecycle states for an account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
)

// Gender is stored as a closed set.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Valid reports whether g is one of the stored values.
func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

// User is a platform account. OrganizerName and PromotionDate are only set
// once the account has been promoted to organizer.
type User struct {
	ID            int64
	AccountType   AccountType
	AccountStatus AccountStatus
	DateJoined    time.Time
	ProfilePic    *string
	Fullname      string
	Gender        Gender
	Email         string
	PhoneNumber   *string
	Birthday      *time.Time
	OrganizerName *string
	PromotionDate *time.Time
	PasswordHash  string
}
