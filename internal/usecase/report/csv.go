package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

// csvHeaders is the fixed column order of the CSV export. The wording
// matches the spreadsheet the operators already work with.
var csvHeaders = []string{
	"Nomor Polisi", "Merk Kendaraan", "Pengemudi", "Tujuan",
	"Waktu Mulai", "Waktu Selesai", "KM Awal", "KM Akhir",
	"Jarak Tempuh (km)", "Catatan", "Status",
}

// ExportCSV renders the filtered log as CSV with RFC4180 quoting. The
// leading BOM keeps spreadsheet applications from mangling the encoding.
func (s *Service) ExportCSV(ctx context.Context, f Filter) ([]byte, error) {
	rows, err := s.Rows(ctx, f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		m := row.Mutation
		record := []string{
			row.vehiclePlate(),
			row.vehicleBrand(),
			m.Driver,
			m.Destination,
			formatTime(&m.StartTime),
			formatTime(m.EndTime),
			strconv.Itoa(m.StartKm),
			formatInt(m.EndKm),
			formatInt(m.Distance),
			m.Notes,
			string(m.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
