// Package maintenance computes overdue-maintenance alerts. The computation
// is a pure function of the vehicle set and a point in time; nothing is
// cached or stored, callers recompute whenever the vehicle list changes.
package maintenance

import (
	"time"

	"github.com/armadatrack/armada/internal/domain"
)

// Maintenance intervals in calendar months.
const (
	ServiceIntervalMonths   = 6
	OilChangeIntervalMonths = 3
	AccuCheckIntervalMonths = 12
)

// Fixed alert texts shown to operators. Part of the product wording, keep
// them byte for byte.
const (
	ReasonServiceOverdue = "Jadwal servis rutin terlewat."
	ReasonOilOverdue     = "Waktunya ganti oli."
	ReasonAccuOverdue    = "Waktunya pemeriksaan aki."
)

// Alert flags one overdue maintenance kind on one vehicle. A vehicle with
// several overdue kinds yields several alerts; grouping them per vehicle is
// a presentation concern, not done here.
type Alert struct {
	Vehicle domain.Vehicle         `json:"vehicle"`
	Kind    domain.MaintenanceKind `json:"kind"`
	Reason  string                 `json:"reason"`
}

// interval pairs a maintenance kind with its schedule.
type interval struct {
	kind   domain.MaintenanceKind
	months int
	reason string
}

var intervals = []interval{
	{domain.MaintenanceService, ServiceIntervalMonths, ReasonServiceOverdue},
	{domain.MaintenanceOil, OilChangeIntervalMonths, ReasonOilOverdue},
	{domain.MaintenanceAccu, AccuCheckIntervalMonths, ReasonAccuOverdue},
}

// ComputeAlerts returns one alert per overdue maintenance kind per vehicle.
// A kind is overdue when its last timestamp plus the interval, in calendar
// months, lies strictly before now. Vehicles missing any of the three
// timestamps are skipped entirely: an incomplete maintenance history cannot
// be scheduled against.
func ComputeAlerts(vehicles []domain.Vehicle, now time.Time) []Alert {
	var alerts []Alert

	for _, v := range vehicles {
		if v.LastServiceDate == nil || v.LastOilChangeDate == nil || v.LastAccuCheckDate == nil {
			continue
		}

		for _, iv := range intervals {
			last := v.MaintenanceDate(iv.kind)
			due := last.AddDate(0, iv.months, 0)
			if due.Before(now) {
				alerts = append(alerts, Alert{Vehicle: v, Kind: iv.kind, Reason: iv.reason})
			}
		}
	}

	return alerts
}
