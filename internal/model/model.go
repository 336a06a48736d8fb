package model

import "time"

type Provider struct {
	ID        string
	Name      string
	Specialty string
	Bio       string
	CreatedAt time.Time
}

// Slot is computed fresh on every availability query and never persisted.
type Slot struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Available bool
}

type Patient struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

type Appointment struct {
	ID              string
	ReferenceNumber string
	SlotID          string
	ProviderID      string
	Patient         Patient
	Reason          string
	StartTime       time.Time
	EndTime         time.Time
	Status          string
	CreatedAt       time.Time
}

const StatusConfirmed = "confirmed"
