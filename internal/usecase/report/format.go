package report

import (
	"fmt"
	"strconv"
	"time"
)

// Indonesian month abbreviations, medium date style.
var monthsID = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// formatTime renders a timestamp the way the log screen does, e.g.
// "12 Mei 2024 14.30". Nil renders as "-".
func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d %s %d %02d.%02d",
		t.Day(), monthsID[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// formatInt renders an optional odometer value; nil renders empty.
func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// vehiclePlate and vehicleBrand tolerate a missing vehicle.

func (r Row) vehiclePlate() string {
	if r.Vehicle == nil {
		return "-"
	}
	return r.Vehicle.PlateNumber
}

func (r Row) vehicleBrand() string {
	if r.Vehicle == nil {
		return "-"
	}
	return r.Vehicle.Brand
}
