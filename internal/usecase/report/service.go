// Package report renders the mutation log into its export formats: CSV,
// single-trip PDF reports and the tabular log PDF. It consumes finalized
// trip data and produces no domain state.
package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/armadatrack/armada/internal/domain"
	"github.com/armadatrack/armada/internal/pkg/logger"
	"github.com/armadatrack/armada/internal/repository"
)

// Filter narrows the mutation log the same way the log screen does:
// substring match on the driver name (case-insensitive) and an inclusive
// date range on the trip start time.
type Filter struct {
	Driver    string
	StartDate *time.Time
	EndDate   *time.Time
}

// Row joins a mutation with its vehicle for rendering. Vehicle is nil when
// the referenced id no longer resolves; rows render "-" for its fields.
type Row struct {
	Mutation domain.Mutation `json:"mutation"`
	Vehicle  *domain.Vehicle `json:"vehicle,omitempty"`
}

// Service renders exports and the read-only report view.
type Service struct {
	vehicleRepo  repository.VehicleRepository
	mutationRepo repository.MutationRepository
	reportBase   string
	logger       logger.Logger
}

// NewService creates a report Service. reportBase is the public URL prefix
// encoded into verification QR codes.
func NewService(
	vehicleRepo repository.VehicleRepository,
	mutationRepo repository.MutationRepository,
	reportBase string,
	logger logger.Logger,
) *Service {
	return &Service{
		vehicleRepo:  vehicleRepo,
		mutationRepo: mutationRepo,
		reportBase:   strings.TrimRight(reportBase, "/"),
		logger:       logger,
	}
}

// Rows returns the filtered mutation log, newest trip first, each joined
// with its vehicle.
func (s *Service) Rows(ctx context.Context, f Filter) ([]Row, error) {
	mutations, err := s.mutationRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	driver := strings.ToLower(strings.TrimSpace(f.Driver))

	rows := make([]Row, 0, len(mutations))
	for _, m := range mutations {
		if driver != "" && !strings.Contains(strings.ToLower(m.Driver), driver) {
			continue
		}
		if f.StartDate != nil && m.StartTime.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil {
			// The end filter is a date; include the whole day.
			cutoff := f.EndDate.AddDate(0, 0, 1)
			if !m.StartTime.Before(cutoff) {
				continue
			}
		}

		row := Row{Mutation: m}
		if v, ok := byID[m.VehicleID]; ok {
			row.Vehicle = &v
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Mutation.StartTime.After(rows[j].Mutation.StartTime)
	})

	return rows, nil
}

// View returns the read-only report data for one mutation. This backs the
// QR deep link and needs no authentication.
func (s *Service) View(ctx context.Context, mutationID string) (*Row, error) {
	mutation, err := s.mutationRepo.GetByID(ctx, mutationID)
	if err != nil {
		return nil, err
	}

	row := &Row{Mutation: *mutation}
	if v, err := s.vehicleRepo.GetByID(ctx, mutation.VehicleID); err == nil {
		row.Vehicle = v
	}
	return row, nil
}

// reportURL is the deep link encoded into the verification QR code.
func (s *Service) reportURL(mutationID string) string {
	return s.reportBase + "/reports/" + mutationID
}
