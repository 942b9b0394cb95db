package domain

import "time"

// Category groups events.
type Category struct {
	ID          int64
	Name        string
	DateCreated time.Time
}
