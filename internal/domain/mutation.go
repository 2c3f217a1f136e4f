package domain

import (
	"strings"
	"time"
)

// MutationStatus represents the lifecycle state of a trip record.
// As with VehicleStatus, the Indonesian values are part of the stored data.
type MutationStatus string

const (
	MutationOngoing   MutationStatus = "Berlangsung"
	MutationCompleted MutationStatus = "Selesai"
)

// Mutation is a recorded vehicle trip, from check-out to check-in.
// A mutation references exactly one vehicle and transitions once, from
// Ongoing to Completed; mutations are never deleted. EndTime, EndKm,
// Distance and Notes are only present once the trip has been completed.
type Mutation struct {
	ID          string         `json:"id"`
	VehicleID   string         `json:"vehicleId"`
	Driver      string         `json:"driver"`
	Destination string         `json:"destination"`
	StartTime   time.Time      `json:"startTime"`
	StartKm     int            `json:"startKm"`
	DriverPhoto string         `json:"driverPhoto,omitempty"` // base64 data URL
	EndTime     *time.Time     `json:"endTime,omitempty"`
	EndKm       *int           `json:"endKm,omitempty"`
	Distance    *int           `json:"distance,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Status      MutationStatus `json:"status"`
}

// IsOngoing reports whether the trip is still in progress.
func (m *Mutation) IsOngoing() bool {
	return m.Status == MutationOngoing
}

// Complete transitions the mutation to Completed, recording the end reading.
// Distance never goes negative; the caller has already validated
// endKm >= StartKm, the clamp mirrors the source system.
func (m *Mutation) Complete(endKm int, notes string, now time.Time) {
	distance := endKm - m.StartKm
	if distance < 0 {
		distance = 0
	}
	m.EndTime = &now
	m.EndKm = &endKm
	m.Distance = &distance
	m.Notes = notes
	m.Status = MutationCompleted
}

// Validate checks the fields required to start a trip.
// The driver photo is mandatory: a trip may not begin without one.
func (m *Mutation) Validate() error {
	if strings.TrimSpace(m.Driver) == "" {
		return ErrInvalidMutationData
	}
	if strings.TrimSpace(m.Destination) == "" {
		return ErrInvalidMutationData
	}
	if m.StartKm < 0 {
		return ErrInvalidMutationData
	}
	if m.DriverPhoto == "" {
		return ErrDriverPhotoRequired
	}
	return nil
}
