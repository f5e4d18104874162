package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"claimhub/internal/model"
	"claimhub/internal/repository"
)

// MonthlyReportRow aggregates one lecturer's approved claims for a month.
type MonthlyReportRow struct {
	LecturerID   uuid.UUID       `json:"lecturer_id"`
	LecturerName string          `json:"lecturer_name"`
	TotalHours   int             `json:"total_hours"`
	ClaimCount   int             `json:"claim_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// MonthlyReport is the per-lecturer breakdown of approved claims for a
// calendar month. Rendering (PDF or otherwise) is the consumer's concern.
type MonthlyReport struct {
	Year        int                `json:"year"`
	Month       time.Month         `json:"month"`
	Rows        []MonthlyReportRow `json:"rows"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// DashboardStats summarises the system for the HR landing page.
type DashboardStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalLecturers int64 `json:"total_lecturers"`
	TotalClaims    int64 `json:"total_claims"`
	PendingClaims  int64 `json:"pending_claims"`
}

// ReportService produces HR report aggregates.
type ReportService interface {
	MonthlyReport(ctx context.Context, year int, month time.Month) (*MonthlyReport, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}

type reportService struct {
	userRepo  repository.UserRepository
	claimRepo repository.ClaimRepository
}

// NewReportService creates a new report service.
func NewReportService(userRepo repository.UserRepository, claimRepo repository.ClaimRepository) ReportService {
	return &reportService{userRepo: userRepo, claimRepo: claimRepo}
}

// MonthlyReport groups the month's approved claims per lecturer.
func (s *reportService) MonthlyReport(ctx context.Context, year int, month time.Month) (*MonthlyReport, error) {
	claims, err := s.claimRepo.ListApprovedForMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("list approved claims: %w", err)
	}

	byOwner := make(map[uuid.UUID]*MonthlyReportRow)
	order := make([]uuid.UUID, 0)
	for _, claim := range claims {
		row, ok := byOwner[claim.OwnerID]
		if !ok {
			row = &MonthlyReportRow{LecturerID: claim.OwnerID, TotalAmount: decimal.Zero}
			byOwner[claim.OwnerID] = row
			order = append(order, claim.OwnerID)
		}
		row.TotalHours += claim.HoursWorked
		row.ClaimCount++
		row.TotalAmount = row.TotalAmount.Add(claim.Amount)
	}

	report := &MonthlyReport{
		Year:        year,
		Month:       month,
		Rows:        make([]MonthlyReportRow, 0, len(order)),
		GrandTotal:  decimal.Zero,
		GeneratedAt: time.Now().UTC(),
	}
	for _, ownerID := range order {
		row := byOwner[ownerID]
		if owner, err := s.userRepo.FindByID(ctx, ownerID); err == nil {
			row.LecturerName = owner.FullName()
		}
		report.Rows = append(report.Rows, *row)
		report.GrandTotal = report.GrandTotal.Add(row.TotalAmount)
	}
	return report, nil
}

// Stats returns the HR dashboard counters.
func (s *reportService) Stats(ctx context.Context) (*DashboardStats, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalLecturers, err := s.userRepo.CountByRole(ctx, model.RoleLecturer)
	if err != nil {
		return nil, fmt.Errorf("count lecturers: %w", err)
	}
	totalClaims, err := s.claimRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count claims: %w", err)
	}
	pendingClaims, err := s.claimRepo.CountByStatus(ctx, model.ClaimStatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending claims: %w", err)
	}

	return &DashboardStats{
		TotalUsers:     totalUsers,
		TotalLecturers: totalLecturers,
		TotalClaims:    totalClaims,
		PendingClaims:  pendingClaims,
	}, nil
}
