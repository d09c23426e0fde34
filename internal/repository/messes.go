package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type MessRepository interface {
	FindByID(ctx context.Context, id string) (models.Mess, error)
	FindAll(ctx context.Context) ([]models.Mess, error)
	Create(ctx context.Context, mess models.Mess) (models.Mess, error)
	Update(ctx context.Context, mess models.Mess) error
	Delete(ctx context.Context, id string) error
}

type SQLiteMessRepository struct {
	database Querier
}

func NewMessRepository(database Querier) *SQLiteMessRepository {
	return &SQLiteMessRepository{database: database}
}

const messColumns = "id, name, admin_key, facilities, is_active, description, created_at"

func scanMess(row rowScanner) (models.Mess, error) {
	var mess models.Mess
	var facilitiesJSON string
	if err := row.Scan(
		&mess.ID, &mess.Name, &mess.AdminKey, &facilitiesJSON,
		&mess.IsActive, &mess.Description, &mess.CreatedAt,
	); err != nil {
		return models.Mess{}, err
	}
	facilities, err := decodeStrings(facilitiesJSON)
	if err != nil {
		return models.Mess{}, err
	}
	mess.Facilities = facilities
	return mess, nil
}

func (repository *SQLiteMessRepository) FindByID(ctx context.Context, id string) (models.Mess, error) {
	mess, err := scanMess(repository.database.QueryRowContext(ctx,
		"SELECT "+messColumns+" FROM messes WHERE id = ?", id,
	))
	if err != nil {
		return models.Mess{}, fmt.Errorf("finding mess by id: %w", err)
	}
	return mess, nil
}

func (repository *SQLiteMessRepository) FindAll(ctx context.Context) ([]models.Mess, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+messColumns+" FROM messes ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("finding all messes: %w", err)
	}
	defer rows.Close()

	var messes []models.Mess
	for rows.Next() {
		mess, err := scanMess(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning mess: %w", err)
		}
		messes = append(messes, mess)
	}
	return messes, rows.Err()
}

func (repository *SQLiteMessRepository) Create(ctx context.Context, mess models.Mess) (models.Mess, error) {
	if mess.ID == "" {
		mess.ID = uuid.New().String()
	}
	if mess.CreatedAt.IsZero() {
		mess.CreatedAt = time.Now()
	}
	facilitiesJSON, err := encodeStrings(mess.Facilities)
	if err != nil {
		return models.Mess{}, err
	}
	if mess.Facilities == nil {
		mess.Facilities = []string{}
	}

	_, err = repository.database.ExecContext(ctx,
		"INSERT INTO messes ("+messColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		mess.ID, mess.Name, mess.AdminKey, facilitiesJSON, mess.IsActive, mess.Description, mess.CreatedAt,
	)
	if err != nil {
		return models.Mess{}, fmt.Errorf("creating mess: %w", err)
	}
	return mess, nil
}

func (repository *SQLiteMessRepository) Update(ctx context.Context, mess models.Mess) error {
	facilitiesJSON, err := encodeStrings(mess.Facilities)
	if err != nil {
		return err
	}
	_, err = repository.database.ExecContext(ctx,
		"UPDATE messes SET name = ?, admin_key = ?, facilities = ?, is_active = ?, description = ? WHERE id = ?",
		mess.Name, mess.AdminKey, facilitiesJSON, mess.IsActive, mess.Description, mess.ID,
	)
	if err != nil {
		return fmt.Errorf("updating mess: %w", err)
	}
	return nil
}

func (repository *SQLiteMessRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM messes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting mess: %w", err)
	}
	return nil
}
