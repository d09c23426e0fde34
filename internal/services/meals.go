package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

var (
	ErrMenuItemUnavailable = errors.New("menu item does not exist or is unavailable")
	ErrBillNotFound        = errors.New("bill not found")
)

type MealService struct {
	menuRepo repository.MenuItemRepository
	mealRepo repository.MealRecordRepository
	messRepo repository.MessRepository
	now      func() time.Time
}

func NewMealService(
	menuRepo repository.MenuItemRepository,
	mealRepo repository.MealRecordRepository,
	messRepo repository.MessRepository,
) *MealService {
	return &MealService{
		menuRepo: menuRepo,
		mealRepo: mealRepo,
		messRepo: messRepo,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for record dates and bill footers.
func (service *MealService) SetClock(now func() time.Time) {
	service.now = now
}

func (service *MealService) today() string {
	return service.now().UTC().Format("2006-01-02")
}

// RecordMeal stores a purchase of the menu item for the user, dated today.
// The item's name, price, category and mess are copied onto the record.
func (service *MealService) RecordMeal(ctx context.Context, userID, menuItemID string) (models.MealRecord, error) {
	item, err := service.menuRepo.FindByID(ctx, menuItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MealRecord{}, ErrMenuItemUnavailable
	}
	if err != nil {
		return models.MealRecord{}, fmt.Errorf("loading menu item: %w", err)
	}
	if !item.Available {
		return models.MealRecord{}, ErrMenuItemUnavailable
	}

	snapshot := models.PurchaseSnapshot{
		MenuItemName: item.Name,
		Price:        item.Price,
		MealType:     item.Category,
		MessID:       item.MessID,
	}
	if item.MessID != "" {
		mess, err := service.messRepo.FindByID(ctx, item.MessID)
		if err == nil {
			snapshot.MessName = mess.Name
		} else if !errors.Is(err, sql.ErrNoRows) {
			return models.MealRecord{}, fmt.Errorf("loading mess: %w", err)
		}
	}

	record, err := service.mealRepo.Create(ctx, models.MealRecord{
		UserID:           userID,
		MenuItemID:       menuItemID,
		Date:             service.today(),
		PurchaseSnapshot: snapshot,
	})
	if err != nil {
		return models.MealRecord{}, err
	}

	slog.Debug("recorded meal", "user", userID, "item", item.Name, "price", item.Price)
	return record, nil
}

func (service *MealService) AllRecords(ctx context.Context) ([]models.MealRecord, error) {
	return service.mealRepo.FindAll(ctx, repository.MealRecordFilter{})
}

func (service *MealService) UserRecords(ctx context.Context, userID string) ([]models.MealRecord, error) {
	return service.mealRepo.FindAll(ctx, repository.MealRecordFilter{UserID: userID})
}

func (service *MealService) TodaysMeals(ctx context.Context, userID string) ([]models.MealRecord, error) {
	return service.mealRepo.FindAll(ctx, repository.MealRecordFilter{UserID: userID, Date: service.today()})
}

func (service *MealService) DailyConsumption(ctx context.Context, userID string) ([]models.DailyConsumption, error) {
	records, err := service.UserRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	return AggregateDaily(records), nil
}

func (service *MealService) MonthlyBills(ctx context.Context, userID string) ([]models.MonthlyBill, error) {
	days, err := service.DailyConsumption(ctx, userID)
	if err != nil {
		return nil, err
	}
	return AggregateMonthly(days), nil
}

// DownloadBill renders the session user's bill for month. The mess line
// comes from the mess the user currently belongs to.
func (service *MealService) DownloadBill(ctx context.Context, session Session, month string) (string, string, error) {
	bills, err := service.MonthlyBills(ctx, session.User.ID)
	if err != nil {
		return "", "", err
	}

	for _, bill := range bills {
		if bill.Month != month {
			continue
		}
		if messID := session.MessID(); messID != "" {
			bill.MessID = messID
			bill.MessName = session.User.MessName
			if mess, err := service.messRepo.FindByID(ctx, messID); err == nil {
				bill.MessName = mess.Name
			}
		}
		return BillFileName(month), RenderBillText(bill, service.now()), nil
	}
	return "", "", ErrBillNotFound
}

// AggregateDaily groups records by date, most recent day first. Records keep
// their stored order within a day.
func AggregateDaily(records []models.MealRecord) []models.DailyConsumption {
	index := make(map[string]int)
	days := []models.DailyConsumption{}

	for _, record := range records {
		position, ok := index[record.Date]
		if !ok {
			position = len(days)
			index[record.Date] = position
			days = append(days, models.DailyConsumption{Date: record.Date})
		}
		days[position].TotalAmount += record.Price
		days[position].Meals = append(days[position].Meals, record)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})
	return days
}

// AggregateMonthly groups days by their YYYY-MM prefix, newest month first.
func AggregateMonthly(days []models.DailyConsumption) []models.MonthlyBill {
	index := make(map[string]int)
	months := []models.MonthlyBill{}

	for _, day := range days {
		month := models.MonthOf(day.Date)
		position, ok := index[month]
		if !ok {
			position = len(months)
			index[month] = position
			months = append(months, models.MonthlyBill{Month: month})
		}
		months[position].TotalAmount += day.TotalAmount
		months[position].Days = append(months[position].Days, day)
	}

	sort.SliceStable(months, func(i, j int) bool {
		return months[i].Month > months[j].Month
	})
	return months
}
