package domain

import "time"

// RegistrationStatus enumerates registration states. Organizers may move a
// registration between any of them.
type RegistrationStatus string

const (
	RegistrationActive    RegistrationStatus = "active"
	RegistrationCancelled RegistrationStatus = "cancelled"
	RegistrationDenied    RegistrationStatus = "denied"
)

// Valid reports whether s is a stored status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationActive, RegistrationCancelled, RegistrationDenied:
		return true
	}
	return false
}

// Attendance values; a nil attendance means not yet recorded.
const (
	AttendancePresent = "true"
	AttendanceAbsent  = "false"
)

// Registration is the (user, event) join row.
type Registration struct {
	UserID           int64
	EventID          int64
	RegistrationDate time.Time
	Status           RegistrationStatus
	Attendance       *string
}

// RegistrationView adds the registrant's display fields.
type RegistrationView struct {
	Registration
	Fullname    string
	Email       string
	PhoneNumber *string
	ProfilePic  *string
}
