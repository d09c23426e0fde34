package repository

import (
	"context"
	"fmt"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type MealRecordFilter struct {
	UserID     string
	MenuItemID string
	Date       string
	// Month matches records whose date starts with the YYYY-MM prefix.
	Month  string
	MessID string
}

type MealRecordRepository interface {
	FindByID(ctx context.Context, id string) (models.MealRecord, error)
	FindAll(ctx context.Context, filter MealRecordFilter) ([]models.MealRecord, error)
	Create(ctx context.Context, record models.MealRecord) (models.MealRecord, error)
	UpdateRating(ctx context.Context, id string, rating models.Rating) error
	Count(ctx context.Context) (int, error)
}

type SQLiteMealRecordRepository struct {
	database Querier
}

func NewMealRecordRepository(database Querier) *SQLiteMealRecordRepository {
	return &SQLiteMealRecordRepository{database: database}
}

const mealRecordColumns = `id, user_id, menu_item_id, menu_item_name, price, date, meal_type,
	user_rating, mess_id, mess_name`

func scanMealRecord(row rowScanner) (models.MealRecord, error) {
	var record models.MealRecord
	err := row.Scan(
		&record.ID, &record.UserID, &record.MenuItemID, &record.MenuItemName, &record.Price,
		&record.Date, &record.MealType, &record.UserRating, &record.MessID, &record.MessName,
	)
	return record, err
}

func (repository *SQLiteMealRecordRepository) FindByID(ctx context.Context, id string) (models.MealRecord, error) {
	record, err := scanMealRecord(repository.database.QueryRowContext(ctx,
		"SELECT "+mealRecordColumns+" FROM meal_records WHERE id = ?", id,
	))
	if err != nil {
		return models.MealRecord{}, fmt.Errorf("finding meal record by id: %w", err)
	}
	return record, nil
}

// FindAll returns matching records in the order they were recorded.
func (repository *SQLiteMealRecordRepository) FindAll(ctx context.Context, filter MealRecordFilter) ([]models.MealRecord, error) {
	query := "SELECT " + mealRecordColumns + " FROM meal_records WHERE 1=1"

	var args []interface{}

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.MenuItemID != "" {
		query += " AND menu_item_id = ?"
		args = append(args, filter.MenuItemID)
	}
	if filter.Date != "" {
		query += " AND date = ?"
		args = append(args, filter.Date)
	}
	if filter.Month != "" {
		query += " AND substr(date, 1, length(?)) = ?"
		args = append(args, filter.Month, filter.Month)
	}
	if filter.MessID != "" {
		query += " AND mess_id = ?"
		args = append(args, filter.MessID)
	}

	query += " ORDER BY seq"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding meal records: %w", err)
	}
	defer rows.Close()

	var records []models.MealRecord
	for rows.Next() {
		record, err := scanMealRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning meal record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (repository *SQLiteMealRecordRepository) Create(ctx context.Context, record models.MealRecord) (models.MealRecord, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO meal_records ("+mealRecordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.ID, record.UserID, record.MenuItemID, record.MenuItemName, record.Price,
		record.Date, record.MealType, record.UserRating, record.MessID, record.MessName,
	)
	if err != nil {
		return models.MealRecord{}, fmt.Errorf("creating meal record: %w", err)
	}
	return record, nil
}

// UpdateRating is the only mutation a meal record allows after creation.
func (repository *SQLiteMealRecordRepository) UpdateRating(ctx context.Context, id string, rating models.Rating) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE meal_records SET user_rating = ? WHERE id = ?", rating, id,
	)
	if err != nil {
		return fmt.Errorf("updating meal rating: %w", err)
	}
	return nil
}

func (repository *SQLiteMealRecordRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repository.database.QueryRowContext(ctx, "SELECT COUNT(*) FROM meal_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting meal records: %w", err)
	}
	return count, nil
}
