package domain

import "time"

type Space struct {
	ID          int64
	Name        string
	Location    string
	Capacity    int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
