package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/database"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

var (
	ErrInvalidMonth      = errors.New("month must be formatted as YYYY-MM")
	ErrInvalidBillStatus = errors.New("bill status must be pending or paid")
)

type BillingService struct {
	database *sql.DB
	billRepo repository.BillRepository
	mealRepo repository.MealRecordRepository
	settings repository.SettingsRepository
	now      func() time.Time
}

func NewBillingService(db *sql.DB) *BillingService {
	return &BillingService{
		database: db,
		billRepo: repository.NewBillRepository(db),
		mealRepo: repository.NewMealRecordRepository(db),
		settings: repository.NewSettingsRepository(db),
		now:      time.Now,
	}
}

func (service *BillingService) SetClock(now func() time.Time) {
	service.now = now
}

type DailySummary struct {
	Date         string  `json:"date"`
	TotalAmount  float64 `json:"totalAmount"`
	MealCount    int     `json:"mealCount"`
	StudentCount int     `json:"studentCount"`
}

func validMonth(month string) bool {
	if len(month) != 7 {
		return false
	}
	_, err := time.Parse("2006-01", month)
	return err == nil
}

// GenerateBillsForMonth creates one pending bill per student who ate during
// month and has no bill for it yet. It returns only the bills it created.
func (service *BillingService) GenerateBillsForMonth(ctx context.Context, month string) ([]models.Bill, error) {
	if !validMonth(month) {
		return nil, ErrInvalidMonth
	}

	var created []models.Bill
	err := database.WithTransaction(ctx, service.database, func(transaction *sql.Tx) error {
		userRepo := repository.NewUserRepository(transaction)
		messRepo := repository.NewMessRepository(transaction)
		billRepo := repository.NewBillRepository(transaction)
		mealRepo := repository.NewMealRecordRepository(transaction)
		settings := repository.NewSettingsRepository(transaction)

		defaultMessID, err := settings.Get(ctx, repository.SettingDefaultMessID)
		if err != nil {
			return err
		}
		defaultMessName, err := settings.Get(ctx, repository.SettingDefaultMessName)
		if err != nil {
			return err
		}

		students, err := userRepo.FindByRole(ctx, models.RoleStudent)
		if err != nil {
			return err
		}

		messNames := make(map[string]string)
		generatedAt := service.now()

		for _, student := range students {
			_, err := billRepo.FindByStudentAndMonth(ctx, student.ID, month)
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}

			records, err := mealRepo.FindAll(ctx, repository.MealRecordFilter{UserID: student.ID, Month: month})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				continue
			}

			bill := models.Bill{
				StudentID:   student.ID,
				StudentName: student.Name,
				MessID:      defaultMessID,
				MessName:    defaultMessName,
				Month:       month,
				Status:      models.BillStatusPending,
				GeneratedAt: generatedAt,
				Items:       make([]models.BillItem, 0, len(records)),
			}

			if student.SelectedMessID != "" {
				name, ok := messNames[student.SelectedMessID]
				if !ok {
					mess, err := messRepo.FindByID(ctx, student.SelectedMessID)
					if err != nil && !errors.Is(err, sql.ErrNoRows) {
						return err
					}
					name = mess.Name
					messNames[student.SelectedMessID] = name
				}
				if name != "" {
					bill.MessID = student.SelectedMessID
					bill.MessName = name
				}
			}

			for _, record := range records {
				bill.TotalAmount += record.Price
				bill.Items = append(bill.Items, models.BillItem{
					Date:     record.Date,
					MealName: record.MenuItemName,
					MealType: record.MealType,
					Price:    record.Price,
				})
			}

			bill, err = billRepo.Create(ctx, bill)
			if err != nil {
				return err
			}
			created = append(created, bill)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generating bills for %s: %w", month, err)
	}

	slog.Info("generated bills", "month", month, "count", len(created))
	return created, nil
}

// GeneratePreviousMonth bills the calendar month before now once. The last
// billed month is kept in settings so repeated runs do nothing.
func (service *BillingService) GeneratePreviousMonth(ctx context.Context) (int, error) {
	current := service.now()
	month := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Format("2006-01")

	last, err := service.settings.Get(ctx, repository.SettingLastBilledMonth)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if last == month {
		return 0, nil
	}

	bills, err := service.GenerateBillsForMonth(ctx, month)
	if err != nil {
		return 0, err
	}
	if err := service.settings.Set(ctx, repository.SettingLastBilledMonth, month); err != nil {
		return len(bills), err
	}
	return len(bills), nil
}

func (service *BillingService) ListBills(ctx context.Context) ([]models.Bill, error) {
	return service.billRepo.FindAll(ctx, repository.BillFilter{})
}

func (service *BillingService) BillsForMess(ctx context.Context, messID string) ([]models.Bill, error) {
	return service.billRepo.FindAll(ctx, repository.BillFilter{MessID: messID})
}

func (service *BillingService) BillsForStudent(ctx context.Context, studentID string) ([]models.Bill, error) {
	return service.billRepo.FindAll(ctx, repository.BillFilter{StudentID: studentID})
}

func (service *BillingService) Get(ctx context.Context, id string) (models.Bill, error) {
	bill, err := service.billRepo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bill{}, ErrNotFound
	}
	return bill, err
}

// UpdateBillStatus ignores unknown bill ids.
func (service *BillingService) UpdateBillStatus(ctx context.Context, id string, status models.BillStatus) error {
	if status != models.BillStatusPending && status != models.BillStatusPaid {
		return ErrInvalidBillStatus
	}
	_, err := service.billRepo.UpdateStatus(ctx, id, status)
	return err
}

func (service *BillingService) RecordDownload(ctx context.Context, id string) error {
	updated, err := service.billRepo.IncrementDownloadCount(ctx, id)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

// SendBillNotifications has no delivery channel yet; it logs and reports how
// many bills were covered.
func (service *BillingService) SendBillNotifications(ctx context.Context, billIDs []string) int {
	slog.InfoContext(ctx, "sent bill notifications", "count", len(billIDs))
	return len(billIDs)
}

// DailySummary totals the meals eaten on date. An empty messID covers every
// mess.
func (service *BillingService) DailySummary(ctx context.Context, date string, messID string) (DailySummary, error) {
	records, err := service.mealRepo.FindAll(ctx, repository.MealRecordFilter{Date: date, MessID: messID})
	if err != nil {
		return DailySummary{}, err
	}

	summary := DailySummary{Date: date, MealCount: len(records)}
	students := make(map[string]struct{})
	for _, record := range records {
		summary.TotalAmount += record.Price
		students[record.UserID] = struct{}{}
	}
	summary.StudentCount = len(students)
	return summary, nil
}
