// Package postgres provides a self-hosted backend for the sheet gateway
// contract. It mirrors the spreadsheet semantics row for row: full-snapshot
// reads, append/overwrite/delete by id, and a single global lock around all
// writes. Deployments without the spreadsheet select it with
// PERSISTENCE_DRIVER=postgres.
package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armadatrack/armada/internal/infrastructure/sheets"
)

// Gateway implements sheets.Gateway on top of PostgreSQL.
// One table per sheet; every record field is stored as written, dates stay
// RFC3339 text exactly as on the wire. The mutex serializes writes the way
// the spreadsheet's script lock does; reads are not covered by it and may
// observe a compound change mid-write, matching the remote contract.
type Gateway struct {
	db *pgxpool.Pool
	mu sync.Mutex
}

// NewGateway wraps a connection pool. Call EnsureSchema before first use.
func NewGateway(db *pgxpool.Pool) *Gateway {
	return &Gateway{db: db}
}

// EnsureSchema creates the three sheet tables when they do not exist yet.
func (g *Gateway) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS sheet_vehicles (
			id                   TEXT PRIMARY KEY,
			plate_number         TEXT NOT NULL DEFAULT '',
			brand                TEXT NOT NULL DEFAULT '',
			year                 INT  NOT NULL DEFAULT 0,
			color                TEXT NOT NULL DEFAULT '',
			status               TEXT NOT NULL DEFAULT '',
			last_service_date    TEXT NOT NULL DEFAULT '',
			last_oil_change_date TEXT NOT NULL DEFAULT '',
			last_accu_check_date TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS sheet_mutations (
			id           TEXT PRIMARY KEY,
			vehicle_id   TEXT NOT NULL DEFAULT '',
			driver       TEXT NOT NULL DEFAULT '',
			destination  TEXT NOT NULL DEFAULT '',
			start_time   TEXT NOT NULL DEFAULT '',
			start_km     INT  NOT NULL DEFAULT 0,
			driver_photo TEXT NOT NULL DEFAULT '',
			end_time     TEXT NOT NULL DEFAULT '',
			end_km       INT,
			distance     INT,
			notes        TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS sheet_users (
			id       TEXT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL DEFAULT '',
			role     TEXT NOT NULL DEFAULT ''
		);`

	if _, err := g.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create sheet tables: %w", err)
	}
	return nil
}

// FetchAll reads the complete data set.
func (g *Gateway) FetchAll(ctx context.Context) (*sheets.SheetData, error) {
	data := &sheets.SheetData{}

	rows, err := g.db.Query(ctx, `
		SELECT id, plate_number, brand, year, color, status,
		       last_service_date, last_oil_change_date, last_accu_check_date
		FROM sheet_vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r sheets.VehicleRecord
		if err := rows.Scan(&r.ID, &r.PlateNumber, &r.Brand, &r.Year, &r.Color, &r.Status,
			&r.LastServiceDate, &r.LastOilChangeDate, &r.LastAccuCheckDate); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		data.Vehicles = append(data.Vehicles, r)
	}
	rows.Close()

	rows, err = g.db.Query(ctx, `
		SELECT id, vehicle_id, driver, destination, start_time, start_km,
		       driver_photo, end_time, end_km, distance, notes, status
		FROM sheet_mutations ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mutations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r sheets.MutationRecord
		if err := rows.Scan(&r.ID, &r.VehicleID, &r.Driver, &r.Destination, &r.StartTime, &r.StartKm,
			&r.DriverPhoto, &r.EndTime, &r.EndKm, &r.Distance, &r.Notes, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan mutation row: %w", err)
		}
		data.Mutations = append(data.Mutations, r)
	}
	rows.Close()

	rows, err = g.db.Query(ctx, `SELECT id, username, password, role FROM sheet_users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r sheets.UserRecord
		if err := rows.Scan(&r.ID, &r.Username, &r.Password, &r.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		data.Users = append(data.Users, r)
	}

	return data, nil
}

// AddRow appends one record to the named sheet.
func (g *Gateway) AddRow(ctx context.Context, sheetName string, record any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch sheetName {
	case sheets.SheetVehicles:
		r, err := asVehicleRecord(record)
		if err != nil {
			return err
		}
		_, err = g.db.Exec(ctx, `
			INSERT INTO sheet_vehicles
				(id, plate_number, brand, year, color, status,
				 last_service_date, last_oil_change_date, last_accu_check_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			r.ID, r.PlateNumber, r.Brand, r.Year, r.Color, r.Status,
			r.LastServiceDate, r.LastOilChangeDate, r.LastAccuCheckDate)
		if err != nil {
			return fmt.Errorf("failed to insert vehicle row: %w", err)
		}
		return nil

	case sheets.SheetMutations:
		r, err := asMutationRecord(record)
		if err != nil {
			return err
		}
		_, err = g.db.Exec(ctx, `
			INSERT INTO sheet_mutations
				(id, vehicle_id, driver, destination, start_time, start_km,
				 driver_photo, end_time, end_km, distance, notes, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			r.ID, r.VehicleID, r.Driver, r.Destination, r.StartTime, r.StartKm,
			r.DriverPhoto, r.EndTime, r.EndKm, r.Distance, r.Notes, r.Status)
		if err != nil {
			return fmt.Errorf("failed to insert mutation row: %w", err)
		}
		return nil

	case sheets.SheetUsers:
		r, err := asUserRecord(record)
		if err != nil {
			return err
		}
		_, err = g.db.Exec(ctx, `
			INSERT INTO sheet_users (id, username, password, role)
			VALUES ($1, $2, $3, $4)`,
			r.ID, r.Username, r.Password, r.Role)
		if err != nil {
			return fmt.Errorf("failed to insert user row: %w", err)
		}
		return nil
	}

	return fmt.Errorf("unknown sheet: %s", sheetName)
}

// UpdateRow overwrites the row matching the record's id. All stored fields
// are replaced, the same way the spreadsheet rewrites the full row.
func (g *Gateway) UpdateRow(ctx context.Context, sheetName string, record any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch sheetName {
	case sheets.SheetVehicles:
		r, err := asVehicleRecord(record)
		if err != nil {
			return err
		}
		tag, err := g.db.Exec(ctx, `
			UPDATE sheet_vehicles
			SET plate_number = $2, brand = $3, year = $4, color = $5, status = $6,
			    last_service_date = $7, last_oil_change_date = $8, last_accu_check_date = $9
			WHERE id = $1`,
			r.ID, r.PlateNumber, r.Brand, r.Year, r.Color, r.Status,
			r.LastServiceDate, r.LastOilChangeDate, r.LastAccuCheckDate)
		if err != nil {
			return fmt.Errorf("failed to update vehicle row: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("row not found: %s/%s", sheetName, r.ID)
		}
		return nil

	case sheets.SheetMutations:
		r, err := asMutationRecord(record)
		if err != nil {
			return err
		}
		tag, err := g.db.Exec(ctx, `
			UPDATE sheet_mutations
			SET vehicle_id = $2, driver = $3, destination = $4, start_time = $5,
			    start_km = $6, driver_photo = $7, end_time = $8, end_km = $9,
			    distance = $10, notes = $11, status = $12
			WHERE id = $1`,
			r.ID, r.VehicleID, r.Driver, r.Destination, r.StartTime, r.StartKm,
			r.DriverPhoto, r.EndTime, r.EndKm, r.Distance, r.Notes, r.Status)
		if err != nil {
			return fmt.Errorf("failed to update mutation row: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("row not found: %s/%s", sheetName, r.ID)
		}
		return nil

	case sheets.SheetUsers:
		r, err := asUserRecord(record)
		if err != nil {
			return err
		}
		tag, err := g.db.Exec(ctx, `
			UPDATE sheet_users SET username = $2, password = $3, role = $4 WHERE id = $1`,
			r.ID, r.Username, r.Password, r.Role)
		if err != nil {
			return fmt.Errorf("failed to update user row: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("row not found: %s/%s", sheetName, r.ID)
		}
		return nil
	}

	return fmt.Errorf("unknown sheet: %s", sheetName)
}

// DeleteRow removes the row with the given id.
func (g *Gateway) DeleteRow(ctx context.Context, sheetName, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var table string
	switch sheetName {
	case sheets.SheetVehicles:
		table = "sheet_vehicles"
	case sheets.SheetMutations:
		table = "sheet_mutations"
	case sheets.SheetUsers:
		table = "sheet_users"
	default:
		return fmt.Errorf("unknown sheet: %s", sheetName)
	}

	tag, err := g.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("row not found: %s/%s", sheetName, id)
	}
	return nil
}

func asVehicleRecord(record any) (sheets.VehicleRecord, error) {
	r, ok := record.(sheets.VehicleRecord)
	if !ok {
		return sheets.VehicleRecord{}, fmt.Errorf("expected VehicleRecord, got %T", record)
	}
	return r, nil
}

func asMutationRecord(record any) (sheets.MutationRecord, error) {
	r, ok := record.(sheets.MutationRecord)
	if !ok {
		return sheets.MutationRecord{}, fmt.Errorf("expected MutationRecord, got %T", record)
	}
	return r, nil
}

func asUserRecord(record any) (sheets.UserRecord, error) {
	r, ok := record.(sheets.UserRecord)
	if !ok {
		return sheets.UserRecord{}, fmt.Errorf("expected UserRecord, got %T", record)
	}
	return r, nil
}
