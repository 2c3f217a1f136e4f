package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/armadatrack/armada/internal/domain"
)

// ExportTripPDF renders the single-trip report form for a completed
// mutation: trip details, driver photo, notes box, signature blocks and the
// verification QR code pointing at the read-only report view.
func (s *Service) ExportTripPDF(ctx context.Context, mutationID string) ([]byte, error) {
	mutation, err := s.mutationRepo.GetByID(ctx, mutationID)
	if err != nil {
		return nil, err
	}
	if mutation.Status != domain.MutationCompleted || mutation.EndTime == nil {
		return nil, domain.ErrMutationNotCompleted
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, mutation.VehicleID)
	if err != nil {
		return nil, err
	}

	qrPNG, err := qrcode.Encode(s.reportURL(mutation.ID), qrcode.High, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetY(14)
	pdf.CellFormat(0, 8, "Formulir Laporan Perjalanan Kendaraan", "", 1, "C", false, 0, "")
	pdf.SetLineWidth(0.5)
	pdf.Line(20, 28, 190, 28)

	// Trip details
	details := [][2]string{
		{"Nomor Polisi", vehicle.PlateNumber},
		{"Kendaraan", fmt.Sprintf("%s (%d)", vehicle.Brand, vehicle.Year)},
		{"Pengemudi", mutation.Driver},
		{"Tujuan", mutation.Destination},
		{"Waktu Mulai", formatTime(&mutation.StartTime)},
		{"Waktu Selesai", formatTime(mutation.EndTime)},
		{"Kilometer Awal", strconv.Itoa(mutation.StartKm) + " km"},
		{"Kilometer Akhir", formatInt(mutation.EndKm) + " km"},
		{"Jarak Tempuh", formatInt(mutation.Distance) + " km"},
	}

	pdf.SetY(35)
	for _, d := range details {
		pdf.SetX(20)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, d[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(85, 7, ": "+d[1], "", 1, "L", false, 0, "")
	}
	tableBottom := pdf.GetY()

	// Driver photo
	photoBottom := 35.0
	if mutation.DriverPhoto != "" {
		if name, opts, ok := s.registerDataURL(pdf, "driver-photo", mutation.DriverPhoto); ok {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.Text(150, 40, "Foto Pengemudi:")
			pdf.ImageOptions(name, 150, 45, 40, 40, false, opts, 0, "")
			pdf.Rect(150, 45, 40, 40, "D")
			photoBottom = 85
		}
	}

	nextY := tableBottom
	if photoBottom > nextY {
		nextY = photoBottom
	}
	nextY += 15

	// Notes
	notes := mutation.Notes
	if notes == "" {
		notes = "Tidak ada catatan."
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, nextY, "Catatan Perjalanan:")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(22, nextY+4)
	pdf.MultiCell(166, 5, notes, "", "L", false)
	notesBottom := pdf.GetY()
	notesHeight := notesBottom - (nextY + 3)
	if notesHeight < 30 {
		notesHeight = 30
	}
	pdf.Rect(20, nextY+3, 170, notesHeight, "D")

	// Signatures
	signY := nextY + notesHeight + 25
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(30, signY, "Diserahkan oleh,")
	pdf.Text(140, signY, "Diterima & Diverifikasi oleh,")

	pdf.Line(30, signY+20, 80, signY+20)
	pdf.Text(30, signY+25, mutation.Driver)
	pdf.Text(30, signY+30, "Pengemudi")

	pdf.RegisterImageOptionsReader("verify-qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("verify-qr", 140, signY+3, 25, 25, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(140, signY+32, "Pindai untuk Verifikasi")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(140, signY+38, "Petugas")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportLogPDF renders the filtered mutation log as a landscape table with
// the same columns as the CSV export.
func (s *Service) ExportLogPDF(ctx context.Context, f Filter) ([]byte, error) {
	rows, err := s.Rows(ctx, f)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Laporan Mutasi Kendaraan", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	widths := []float64{25, 28, 30, 35, 30, 30, 18, 18, 22, 30, 24}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(229, 231, 235)
	for i, h := range csvHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		m := row.Mutation
		cells := []string{
			row.vehiclePlate(),
			row.vehicleBrand(),
			m.Driver,
			m.Destination,
			formatTime(&m.StartTime),
			formatTime(m.EndTime),
			strconv.Itoa(m.StartKm),
			formatInt(m.EndKm),
			formatInt(m.Distance),
			truncate(m.Notes, 28),
			string(m.Status),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// registerDataURL decodes a base64 data URL and registers it as a PDF
// image. Unparseable photos are skipped rather than failing the report; the
// bytes are verified as a real image first so a corrupt upload cannot put
// the renderer into its error state.
func (s *Service) registerDataURL(pdf *gofpdf.Fpdf, name, dataURL string) (string, gofpdf.ImageOptions, bool) {
	header, data, found := strings.Cut(dataURL, ",")
	if !found {
		return "", gofpdf.ImageOptions{}, false
	}

	imageType := ""
	switch {
	case strings.Contains(header, "image/png"):
		imageType = "PNG"
	case strings.Contains(header, "image/jpeg"), strings.Contains(header, "image/jpg"):
		imageType = "JPEG"
	default:
		return "", gofpdf.ImageOptions{}, false
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		s.logger.Warn("Failed to decode driver photo", map[string]interface{}{
			"error": err.Error(),
		})
		return "", gofpdf.ImageOptions{}, false
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		s.logger.Warn("Driver photo is not a valid image, skipping", map[string]interface{}{
			"error": err.Error(),
		})
		return "", gofpdf.ImageOptions{}, false
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	return name, opts, pdf.Ok()
}

// truncate shortens a cell value so the table row stays on one line.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
