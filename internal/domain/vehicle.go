package domain

import (
	"strings"
	"time"
)

// VehicleStatus represents the availability of a vehicle.
// The string values are the fixed Indonesian labels stored in the backing
// sheet; they must not be translated or renamed.
type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "Tersedia"
	VehicleInUse     VehicleStatus = "Dalam Perjalanan"
)

// MaintenanceKind identifies one of the three tracked maintenance schedules.
type MaintenanceKind string

const (
	MaintenanceService MaintenanceKind = "service"
	MaintenanceOil     MaintenanceKind = "oil"
	MaintenanceAccu    MaintenanceKind = "accu"
)

// ParseMaintenanceKind validates a maintenance kind coming from the outside.
func ParseMaintenanceKind(s string) (MaintenanceKind, error) {
	switch MaintenanceKind(s) {
	case MaintenanceService, MaintenanceOil, MaintenanceAccu:
		return MaintenanceKind(s), nil
	}
	return "", ErrInvalidMaintenanceKind
}

// Vehicle is a fleet vehicle.
// Status is InUse exactly while one Ongoing mutation references the vehicle;
// only the trip service may change it. The three maintenance timestamps are
// absolute points in time and feed the maintenance scheduler. A nil timestamp
// means the date was never recorded; such a vehicle is skipped by the
// scheduler.
type Vehicle struct {
	ID                string        `json:"id"`
	PlateNumber       string        `json:"plateNumber"`
	Brand             string        `json:"brand"`
	Year              int           `json:"year"`
	Color             string        `json:"color"`
	Status            VehicleStatus `json:"status"`
	LastServiceDate   *time.Time    `json:"lastServiceDate,omitempty"`
	LastOilChangeDate *time.Time    `json:"lastOilChangeDate,omitempty"`
	LastAccuCheckDate *time.Time    `json:"lastAccuCheckDate,omitempty"`
}

// NormalizePlateNumber uppercases a plate number and collapses repeated
// whitespace so "b 1234  xy" and "B 1234 XY" compare equal.
func NormalizePlateNumber(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), " "))
}

// IsAvailable reports whether the vehicle can start a trip.
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleAvailable
}

// MaintenanceDate returns the stored timestamp for the given kind.
func (v *Vehicle) MaintenanceDate(kind MaintenanceKind) *time.Time {
	switch kind {
	case MaintenanceService:
		return v.LastServiceDate
	case MaintenanceOil:
		return v.LastOilChangeDate
	case MaintenanceAccu:
		return v.LastAccuCheckDate
	}
	return nil
}

// SetMaintenanceDate overwrites the timestamp for the given kind.
// Vehicle status is deliberately left alone.
func (v *Vehicle) SetMaintenanceDate(kind MaintenanceKind, t time.Time) {
	switch kind {
	case MaintenanceService:
		v.LastServiceDate = &t
	case MaintenanceOil:
		v.LastOilChangeDate = &t
	case MaintenanceAccu:
		v.LastAccuCheckDate = &t
	}
}

// Validate checks the descriptive fields supplied when a vehicle is created.
func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.PlateNumber) == "" {
		return ErrInvalidVehicleData
	}
	if strings.TrimSpace(v.Brand) == "" {
		return ErrInvalidVehicleData
	}
	if v.Year < 1950 {
		return ErrInvalidVehicleData
	}
	return nil
}
