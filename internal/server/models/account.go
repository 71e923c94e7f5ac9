package models

import "time"

type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}
