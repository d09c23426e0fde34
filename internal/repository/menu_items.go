package repository

import (
	"context"
	"fmt"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type MenuItemFilter struct {
	Category      models.MealType
	MessID        string
	AvailableOnly bool
}

type MenuItemRepository interface {
	FindByID(ctx context.Context, id string) (models.MenuItem, error)
	FindAll(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error)
	Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	Update(ctx context.Context, item models.MenuItem) error
	UpdateFeedback(ctx context.Context, id string, likes int, dislikes int) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type SQLiteMenuItemRepository struct {
	database Querier
}

func NewMenuItemRepository(database Querier) *SQLiteMenuItemRepository {
	return &SQLiteMenuItemRepository{database: database}
}

const menuItemColumns = "id, name, description, price, category, available, likes, dislikes, mess_id"

func scanMenuItem(row rowScanner) (models.MenuItem, error) {
	var item models.MenuItem
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.Category,
		&item.Available, &item.Likes, &item.Dislikes, &item.MessID,
	)
	return item, err
}

func (repository *SQLiteMenuItemRepository) FindByID(ctx context.Context, id string) (models.MenuItem, error) {
	item, err := scanMenuItem(repository.database.QueryRowContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items WHERE id = ?", id,
	))
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("finding menu item by id: %w", err)
	}
	return item, nil
}

func (repository *SQLiteMenuItemRepository) FindAll(ctx context.Context, filter MenuItemFilter) ([]models.MenuItem, error) {
	query := "SELECT " + menuItemColumns + " FROM menu_items WHERE 1=1"

	var args []interface{}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.MessID != "" {
		query += " AND mess_id = ?"
		args = append(args, filter.MessID)
	}
	if filter.AvailableOnly {
		query += " AND available = 1"
	}

	query += " ORDER BY rowid"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (repository *SQLiteMenuItemRepository) Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO menu_items ("+menuItemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.Name, item.Description, item.Price, item.Category,
		item.Available, item.Likes, item.Dislikes, item.MessID,
	)
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("creating menu item: %w", err)
	}
	return item, nil
}

func (repository *SQLiteMenuItemRepository) Update(ctx context.Context, item models.MenuItem) error {
	_, err := repository.database.ExecContext(ctx,
		`UPDATE menu_items SET name = ?, description = ?, price = ?, category = ?,
			available = ?, likes = ?, dislikes = ?, mess_id = ?
		WHERE id = ?`,
		item.Name, item.Description, item.Price, item.Category,
		item.Available, item.Likes, item.Dislikes, item.MessID, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating menu item: %w", err)
	}
	return nil
}

func (repository *SQLiteMenuItemRepository) UpdateFeedback(ctx context.Context, id string, likes int, dislikes int) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE menu_items SET likes = ?, dislikes = ? WHERE id = ?", likes, dislikes, id,
	)
	if err != nil {
		return fmt.Errorf("updating menu item feedback: %w", err)
	}
	return nil
}

func (repository *SQLiteMenuItemRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM menu_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting menu item: %w", err)
	}
	return nil
}

func (repository *SQLiteMenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repository.database.QueryRowContext(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting menu items: %w", err)
	}
	return count, nil
}
