package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"society-be-svc/internal/metrics"
	"society-be-svc/internal/models"
	"society-be-svc/internal/models/response"
	"society-be-svc/internal/notification"
	"society-be-svc/internal/repository"
	"society-be-svc/pkg/logger"
)

const defaultPaymentMethod = "online"

// GenerateBulkRequest is the payload for billing every occupied flat for one period
type GenerateBulkRequest struct {
	Month       string   `json:"month" example:"march"`
	Year        int      `json:"year" example:"2024"`
	Amount      *float64 `json:"amount" example:"2500"`
	DueDate     string   `json:"dueDate" example:"2024-03-10"`
	Description string   `json:"description" example:"Maintenance for march 2024"`
}

// CreateBillRequest is the payload for billing one flat
type CreateBillRequest struct {
	Wing        string   `json:"wing" example:"A"`
	FlatNo      string   `json:"flatNo" example:"101"`
	Amount      *float64 `json:"amount" example:"2500"`
	Month       string   `json:"month" example:"march"`
	Year        int      `json:"year" example:"2024"`
	DueDate     string   `json:"dueDate" example:"2024-03-10"`
	Description string   `json:"description"`
}

// BillListFilter narrows bill listings and exports
type BillListFilter struct {
	Month  string
	Year   *int
	Status models.BillStatus
	Wing   string
}

// BulkResult reports how many bills were created and how many were skipped as duplicates
type BulkResult struct {
	Created int64 `json:"created"`
	Skipped int64 `json:"skipped"`
}

// MaintenanceService defines the interface for billing operations
type MaintenanceService interface {
	GenerateBulk(ctx context.Context, req GenerateBulkRequest) (*BulkResult, error)
	CreateSingleBill(ctx context.Context, req CreateBillRequest) (*models.MaintenanceBill, error)
	CreateBatch(ctx context.Context, reqs []CreateBillRequest) (*BulkResult, error)
	Pay(ctx context.Context, caller Caller, billID uint, paymentMethod string) (*models.MaintenanceBill, error)
	DeleteBill(ctx context.Context, billID uint) error
	ListBills(ctx context.Context, caller Caller, filter BillListFilter) ([]*models.MaintenanceBill, error)
	Stats(ctx context.Context) (*response.BillingStatisticsResponse, error)
	FinancialSummary(ctx context.Context, month string, year *int) (*response.BillingStatisticsResponse, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	Export(ctx context.Context, filter BillListFilter) ([]byte, string, error)
}

// maintenanceService implements MaintenanceService
type maintenanceService struct {
	db            *gorm.DB
	billRepo      repository.MaintenanceRepository
	flatRepo      repository.FlatRepository
	userRepo      repository.UserRepository
	dashboardRepo repository.DashboardRepository
	notifier      notification.Notifier
	cache         DashboardCache
	logger        *logger.Logger
	now           func() time.Time
}

// NewMaintenanceService creates a new instance of MaintenanceService
func NewMaintenanceService(
	db *gorm.DB,
	billRepo repository.MaintenanceRepository,
	flatRepo repository.FlatRepository,
	userRepo repository.UserRepository,
	dashboardRepo repository.DashboardRepository,
	notifier notification.Notifier,
	cache DashboardCache,
	logger *logger.Logger,
) MaintenanceService {
	return &maintenanceService{
		db:            db,
		billRepo:      billRepo,
		flatRepo:      flatRepo,
		userRepo:      userRepo,
		dashboardRepo: dashboardRepo,
		notifier:      notifier,
		cache:         cache,
		logger:        logger,
		now:           time.Now,
	}
}

// GenerateBulk replaces the bills of (month, year) with one pending bill per occupied flat
func (s *maintenanceService) GenerateBulk(ctx context.Context, req GenerateBulkRequest) (*BulkResult, error) {
	month := models.NormalizeMonth(req.Month)
	if month == "" || req.Year == 0 || req.Amount == nil || strings.TrimSpace(req.DueDate) == "" {
		return nil, ErrMissingFields
	}
	if !models.ValidPeriod(month, req.Year) {
		return nil, ErrInvalidPeriod
	}
	if *req.Amount < 0 {
		return nil, ErrValidation.Withf("amount must not be negative")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = defaultDescription(month, req.Year)
	}

	result := &BulkResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bills := s.billRepo.WithTx(tx)
		users := s.userRepo.WithTx(tx)

		flats, err := s.flatRepo.WithTx(tx).ListOccupied(ctx)
		if err != nil {
			return fmt.Errorf("failed to list occupied flats: %w", err)
		}
		if len(flats) == 0 {
			return ErrNoOccupiedFlats
		}

		deleted, err := bills.DeleteByPeriod(ctx, month, req.Year)
		if err != nil {
			return fmt.Errorf("failed to delete existing bills: %w", err)
		}
		if deleted > 0 {
			s.logger.WithFields(map[string]interface{}{
				"month":   month,
				"year":    req.Year,
				"deleted": deleted,
			}).Info("Deleted existing bills for period")
		}

		batch := make([]*models.MaintenanceBill, 0, len(flats))
		for _, flat := range flats {
			residentID := flat.ResidentID
			if residentID == nil {
				if u, err := users.FindResidentByUnit(ctx, flat.Wing, flat.FlatNo); err == nil {
					residentID = &u.ID
				}
			}

			batch = append(batch, &models.MaintenanceBill{
				Wing:        flat.Wing,
				FlatNo:      flat.FlatNo,
				Amount:      *req.Amount,
				Month:       month,
				Year:        req.Year,
				Description: description,
				Status:      models.BillStatusPending,
				DueDate:     dueDate,
				ResidentID:  residentID,
			})
		}

		created, err := bills.CreateSkippingConflicts(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to create bills: %w", err)
		}

		result.Created = created
		result.Skipped = int64(len(batch)) - created
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BillsGeneratedTotal.WithLabelValues("bulk").Add(float64(result.Created))
	metrics.BillsSkippedTotal.Add(float64(result.Skipped))
	s.cache.Invalidate(ctx)

	s.logger.WithFields(map[string]interface{}{
		"month":   month,
		"year":    req.Year,
		"created": result.Created,
		"skipped": result.Skipped,
	}).Info("Bulk maintenance bills generated")

	return result, nil
}

// CreateSingleBill bills one flat for one period
func (s *maintenanceService) CreateSingleBill(ctx context.Context, req CreateBillRequest) (*models.MaintenanceBill, error) {
	bill, err := s.buildBill(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.flatRepo.GetByUnit(ctx, bill.Wing, bill.FlatNo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFlatNotFound.Withf("flat %s not found, please add the flat first", models.UnitLabel(bill.Wing, bill.FlatNo))
		}
		return nil, fmt.Errorf("failed to get flat: %w", err)
	}

	exists, err := s.billRepo.ExistsForPeriod(ctx, bill.Wing, bill.FlatNo, bill.Month, bill.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bill: %w", err)
	}
	if exists {
		return nil, ErrDuplicatePeriod
	}

	if resident, err := s.userRepo.FindResidentByUnit(ctx, bill.Wing, bill.FlatNo); err == nil {
		bill.ResidentID = &resident.ID
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicatePeriod
		}
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	metrics.BillsGeneratedTotal.WithLabelValues("single").Inc()
	s.cache.Invalidate(ctx)
	s.logger.WithFields(map[string]interface{}{
		"bill_id": bill.ID,
		"flat":    models.UnitLabel(bill.Wing, bill.FlatNo),
	}).Info("Maintenance bill created")

	return bill, nil
}

// CreateBatch inserts explicit bills. Bills colliding with an existing period are skipped.
func (s *maintenanceService) CreateBatch(ctx context.Context, reqs []CreateBillRequest) (*BulkResult, error) {
	if len(reqs) == 0 {
		return nil, ErrValidation.Withf("bills must be a non-empty array")
	}

	batch := make([]*models.MaintenanceBill, 0, len(reqs))
	for i, req := range reqs {
		bill, err := s.buildBill(req)
		if err != nil {
			var svcErr *Error
			if errors.As(err, &svcErr) {
				return nil, svcErr.Withf("bill %d: %s", i+1, svcErr.Message)
			}
			return nil, err
		}

		flat, err := s.flatRepo.GetByUnit(ctx, bill.Wing, bill.FlatNo)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrFlatNotFound.Withf("bill %d: flat %s not found", i+1, models.UnitLabel(bill.Wing, bill.FlatNo))
			}
			return nil, fmt.Errorf("failed to get flat: %w", err)
		}
		bill.ResidentID = flat.ResidentID

		batch = append(batch, bill)
	}

	created, err := s.billRepo.CreateSkippingConflicts(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to create bills: %w", err)
	}

	result := &BulkResult{Created: created, Skipped: int64(len(batch)) - created}

	metrics.BillsGeneratedTotal.WithLabelValues("batch").Add(float64(result.Created))
	metrics.BillsSkippedTotal.Add(float64(result.Skipped))
	s.cache.Invalidate(ctx)

	return result, nil
}

func (s *maintenanceService) buildBill(req CreateBillRequest) (*models.MaintenanceBill, error) {
	wing := NormalizeWing(req.Wing)
	flatNo := strings.TrimSpace(req.FlatNo)
	month := models.NormalizeMonth(req.Month)

	if wing == "" || flatNo == "" || month == "" || req.Year == 0 || req.Amount == nil || strings.TrimSpace(req.DueDate) == "" {
		return nil, ErrMissingFields.Withf("wing, flat number, month, year, amount and due date are required")
	}
	if !models.ValidPeriod(month, req.Year) {
		return nil, ErrInvalidPeriod
	}
	if *req.Amount < 0 {
		return nil, ErrValidation.Withf("amount must not be negative")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = defaultDescription(month, req.Year)
	}

	return &models.MaintenanceBill{
		Wing:        wing,
		FlatNo:      flatNo,
		Amount:      *req.Amount,
		Month:       month,
		Year:        req.Year,
		Description: description,
		Status:      models.BillStatusPending,
		DueDate:     dueDate,
	}, nil
}

// Pay records a payment. Residents may only pay bills of their own flat.
func (s *maintenanceService) Pay(ctx context.Context, caller Caller, billID uint, paymentMethod string) (*models.MaintenanceBill, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, notFound(err, ErrBillNotFound)
	}

	if !caller.IsAdmin() {
		if !caller.HasUnit() {
			return nil, ErrNoUnit
		}
		if bill.Wing != caller.Wing || bill.FlatNo != caller.FlatNo {
			return nil, ErrAccessDenied.Withf("you can only pay bills for your own flat")
		}
	}

	if bill.Status == models.BillStatusPaid {
		return nil, ErrAlreadyPaid
	}

	method := strings.TrimSpace(paymentMethod)
	if method == "" {
		method = defaultPaymentMethod
	}
	paidAt := s.now()

	if err := s.billRepo.MarkPaid(ctx, bill.ID, method, paidAt); err != nil {
		// The bill existed a moment ago, so a miss means a concurrent payment won.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlreadyPaid
		}
		return nil, fmt.Errorf("failed to mark bill paid: %w", err)
	}

	bill.Status = models.BillStatusPaid
	bill.PaidDate = &paidAt
	bill.PaymentMethod = method

	metrics.PaymentsTotal.WithLabelValues(method).Inc()
	s.cache.Invalidate(ctx)

	s.logger.WithFields(map[string]interface{}{
		"bill_id": bill.ID,
		"flat":    models.UnitLabel(bill.Wing, bill.FlatNo),
		"method":  method,
		"user_id": caller.UserID,
	}).Info("Maintenance bill paid")

	resident, err := s.userRepo.FindResidentByUnit(ctx, bill.Wing, bill.FlatNo)
	switch {
	case err == nil:
		s.notifier.NotifyPaymentConfirmation(resident.Email, bill)
	case !errors.Is(err, repository.ErrNotFound):
		s.logger.WithError(err).WithField("bill_id", bill.ID).Warn("Failed to look up resident for payment confirmation")
	}

	return bill, nil
}

// DeleteBill removes a bill regardless of its status
func (s *maintenanceService) DeleteBill(ctx context.Context, billID uint) error {
	if err := s.billRepo.Delete(ctx, billID); err != nil {
		return notFound(err, ErrBillNotFound)
	}

	s.cache.Invalidate(ctx)
	s.logger.WithField("bill_id", billID).Info("Maintenance bill deleted")
	return nil
}

// ListBills lists bills newest period first. Residents only see their own flat's bills.
func (s *maintenanceService) ListBills(ctx context.Context, caller Caller, filter BillListFilter) ([]*models.MaintenanceBill, error) {
	repoFilter, err := toRepositoryFilter(filter)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		if !caller.HasUnit() {
			return nil, ErrNoUnit
		}
		repoFilter.Wing = caller.Wing
		repoFilter.FlatNo = caller.FlatNo
	}

	bills, err := s.billRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	sortBills(bills)
	return bills, nil
}

func toRepositoryFilter(filter BillListFilter) (repository.BillFilter, error) {
	out := repository.BillFilter{
		Wing:   NormalizeWing(filter.Wing),
		Year:   filter.Year,
		Status: filter.Status,
	}

	if filter.Month != "" {
		out.Month = models.NormalizeMonth(filter.Month)
		if models.MonthIndex(out.Month) == 0 {
			return out, ErrInvalidPeriod.Withf("invalid month %q", filter.Month)
		}
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return out, ErrInvalidStatus.Withf("invalid status %q", filter.Status)
	}
	return out, nil
}

// sortBills orders by year desc, calendar month desc and keeps the repository's
// created_at desc order within a period
func sortBills(bills []*models.MaintenanceBill) {
	sort.SliceStable(bills, func(i, j int) bool {
		if bills[i].Year != bills[j].Year {
			return bills[i].Year > bills[j].Year
		}
		return models.MonthIndex(bills[i].Month) > models.MonthIndex(bills[j].Month)
	})
}

// Stats summarises every bill. Pending amount covers everything not yet paid.
func (s *maintenanceService) Stats(ctx context.Context) (*response.BillingStatisticsResponse, error) {
	rows, err := s.dashboardRepo.GetBillStatusAggregates(ctx, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bills: %w", err)
	}

	stats := buildStatistics(rows)
	stats.PendingAmount = stats.TotalAmount - stats.PaidAmount
	return stats, nil
}

// FinancialSummary summarises bills, restricted to one period when both month and year
// are given. Pending amount covers pending bills only.
func (s *maintenanceService) FinancialSummary(ctx context.Context, month string, year *int) (*response.BillingStatisticsResponse, error) {
	month = models.NormalizeMonth(month)
	if month == "" || year == nil {
		month, year = "", nil
	} else if !models.ValidPeriod(month, *year) {
		return nil, ErrInvalidPeriod
	}

	rows, err := s.dashboardRepo.GetBillStatusAggregates(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bills: %w", err)
	}
	return buildStatistics(rows), nil
}

func buildStatistics(rows []response.BillStatusAggregate) *response.BillingStatisticsResponse {
	stats := &response.BillingStatisticsResponse{}

	for _, row := range rows {
		stats.TotalBills += row.Count
		stats.TotalAmount += row.Amount

		switch models.BillStatus(row.Status) {
		case models.BillStatusPaid:
			stats.PaidBills = row.Count
			stats.PaidAmount = row.Amount
		case models.BillStatusPending:
			stats.PendingBills = row.Count
			stats.PendingAmount = row.Amount
		case models.BillStatusOverdue:
			stats.OverdueBills = row.Count
		}
	}

	if stats.TotalAmount > 0 {
		stats.CollectionRate = math.Round(stats.PaidAmount/stats.TotalAmount*100*100) / 100
	}
	return stats
}

// MarkOverdue moves pending bills whose due date has passed to overdue. A bill stays
// pending for the whole of its due day.
func (s *maintenanceService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.billRepo.MarkOverdue(ctx, startOfDay(now))
	if err != nil {
		return 0, fmt.Errorf("failed to mark bills overdue: %w", err)
	}

	if count > 0 {
		metrics.BillsMarkedOverdueTotal.Add(float64(count))
		s.cache.Invalidate(ctx)
	}

	s.logger.WithField("count", count).Info("Overdue sweep completed")
	return count, nil
}

// Export renders the matching bills as an XLSX workbook
func (s *maintenanceService) Export(ctx context.Context, filter BillListFilter) ([]byte, string, error) {
	repoFilter, err := toRepositoryFilter(filter)
	if err != nil {
		return nil, "", err
	}

	bills, err := s.billRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get bills: %w", err)
	}
	sortBills(bills)

	// Create a new Excel file
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Error("Error closing Excel file")
		}
	}()

	sheetName := "Maintenance Bills"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"No", "Wing", "Flat No", "Month", "Year", "Amount", "Status", "Due Date", "Paid Date", "Payment Method", "Description"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D3D3D3"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "K1", headerStyle)
	}

	for i, bill := range bills {
		row := i + 2

		paidDate := ""
		if bill.PaidDate != nil {
			paidDate = bill.PaidDate.Format("2006-01-02")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), bill.Wing)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), bill.FlatNo)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), bill.Month)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), bill.Year)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), bill.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), string(bill.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), bill.DueDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), paidDate)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), bill.PaymentMethod)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), bill.Description)
	}

	for i := 1; i <= len(headers); i++ {
		col, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, col, col, 15)
	}

	// Delete default Sheet1 if it exists
	if f.GetSheetName(0) == "Sheet1" && sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	filename := fmt.Sprintf("maintenance_export_%s.xlsx", s.now().Format("20060102_150405"))

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buffer.Bytes(), filename, nil
}

// startOfDay truncates t to midnight UTC, the instant due dates are stored at
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func defaultDescription(month string, year int) string {
	return fmt.Sprintf("Maintenance for %s %d", month, year)
}

// parseDate accepts a calendar date or an RFC 3339 timestamp
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, ErrValidation.Withf("invalid due date %q, expected YYYY-MM-DD", raw)
}
