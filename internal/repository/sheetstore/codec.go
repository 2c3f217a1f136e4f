package sheetstore

import (
	"time"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/infrastructure/sheets"
)

// Mapping between wire records and domain types. All date parsing and
// formatting happens here so the loose typing of the sheet never leaks
// into the core.

// parseSheetTime accepts the formats the sheet has historically held:
// RFC3339 timestamps written by the app and bare dates entered by hand.
func parseSheetTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func formatSheetTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func vehicleFromRecord(rec sheets.VehicleRecord) domain.Vehicle {
	status := domain.VehicleStatus(rec.Status)
	if status != domain.VehicleInUse {
		status = domain.VehicleAvailable
	}
	return domain.Vehicle{
		ID:                rec.ID,
		PlateNumber:       rec.PlateNumber,
		Brand:             rec.Brand,
		Year:              rec.Year,
		Color:             rec.Color,
		Status:            status,
		LastServiceDate:   parseSheetTime(rec.LastServiceDate),
		LastOilChangeDate: parseSheetTime(rec.LastOilChangeDate),
		LastAccuCheckDate: parseSheetTime(rec.LastAccuCheckDate),
	}
}

func vehicleToRecord(v *domain.Vehicle) sheets.VehicleRecord {
	return sheets.VehicleRecord{
		ID:                v.ID,
		PlateNumber:       v.PlateNumber,
		Brand:             v.Brand,
		Year:              v.Year,
		Color:             v.Color,
		Status:            string(v.Status),
		LastServiceDate:   formatSheetTime(v.LastServiceDate),
		LastOilChangeDate: formatSheetTime(v.LastOilChangeDate),
		LastAccuCheckDate: formatSheetTime(v.LastAccuCheckDate),
	}
}

func mutationFromRecord(rec sheets.MutationRecord) domain.Mutation {
	status := domain.MutationStatus(rec.Status)
	if status != domain.MutationCompleted {
		status = domain.MutationOngoing
	}

	var startTime time.Time
	if t := parseSheetTime(rec.StartTime); t != nil {
		startTime = *t
	}

	return domain.Mutation{
		ID:          rec.ID,
		VehicleID:   rec.VehicleID,
		Driver:      rec.Driver,
		Destination: rec.Destination,
		StartTime:   startTime,
		StartKm:     rec.StartKm,
		DriverPhoto: rec.DriverPhoto,
		EndTime:     parseSheetTime(rec.EndTime),
		EndKm:       rec.EndKm,
		Distance:    rec.Distance,
		Notes:       rec.Notes,
		Status:      status,
	}
}

func mutationToRecord(m *domain.Mutation) sheets.MutationRecord {
	return sheets.MutationRecord{
		ID:          m.ID,
		VehicleID:   m.VehicleID,
		Driver:      m.Driver,
		Destination: m.Destination,
		StartTime:   m.StartTime.Format(time.RFC3339),
		StartKm:     m.StartKm,
		DriverPhoto: m.DriverPhoto,
		EndTime:     formatSheetTime(m.EndTime),
		EndKm:       m.EndKm,
		Distance:    m.Distance,
		Notes:       m.Notes,
		Status:      string(m.Status),
	}
}

func userFromRecord(rec sheets.UserRecord) domain.User {
	role := domain.Role(rec.Role)
	if role != domain.RoleAdmin {
		role = domain.RoleOperator
	}
	return domain.User{
		ID:       rec.ID,
		Username: rec.Username,
		Password: rec.Password,
		Role:     role,
	}
}

func userToRecord(u *domain.User) sheets.UserRecord {
	return sheets.UserRecord{
		ID:       u.ID,
		Username: u.Username,
		Password: u.Password,
		Role:     string(u.Role),
	}
}
