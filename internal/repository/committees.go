package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type CommitteeRepository interface {
	FindByID(ctx context.Context, id string) (models.MessCommittee, error)
	FindAll(ctx context.Context) ([]models.MessCommittee, error)
	Create(ctx context.Context, committee models.MessCommittee) (models.MessCommittee, error)
	Update(ctx context.Context, committee models.MessCommittee) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type SQLiteCommitteeRepository struct {
	database Querier
}

func NewCommitteeRepository(database Querier) *SQLiteCommitteeRepository {
	return &SQLiteCommitteeRepository{database: database}
}

const committeeColumns = "id, name, facilities, admin_key, is_active, created_at"

func scanCommittee(row rowScanner) (models.MessCommittee, error) {
	var committee models.MessCommittee
	var facilitiesJSON string
	if err := row.Scan(
		&committee.ID, &committee.Name, &facilitiesJSON, &committee.AdminKey,
		&committee.IsActive, &committee.CreatedAt,
	); err != nil {
		return models.MessCommittee{}, err
	}
	facilities, err := decodeStrings(facilitiesJSON)
	if err != nil {
		return models.MessCommittee{}, err
	}
	committee.Facilities = facilities
	return committee, nil
}

func (repository *SQLiteCommitteeRepository) FindByID(ctx context.Context, id string) (models.MessCommittee, error) {
	committee, err := scanCommittee(repository.database.QueryRowContext(ctx,
		"SELECT "+committeeColumns+" FROM mess_committees WHERE id = ?", id,
	))
	if err != nil {
		return models.MessCommittee{}, fmt.Errorf("finding committee by id: %w", err)
	}
	return committee, nil
}

func (repository *SQLiteCommitteeRepository) FindAll(ctx context.Context) ([]models.MessCommittee, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+committeeColumns+" FROM mess_committees ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("finding committees: %w", err)
	}
	defer rows.Close()

	var committees []models.MessCommittee
	for rows.Next() {
		committee, err := scanCommittee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning committee: %w", err)
		}
		committees = append(committees, committee)
	}
	return committees, rows.Err()
}

func (repository *SQLiteCommitteeRepository) Create(ctx context.Context, committee models.MessCommittee) (models.MessCommittee, error) {
	if committee.ID == "" {
		committee.ID = uuid.New().String()
	}
	if committee.CreatedAt.IsZero() {
		committee.CreatedAt = time.Now()
	}
	facilitiesJSON, err := encodeStrings(committee.Facilities)
	if err != nil {
		return models.MessCommittee{}, err
	}
	if committee.Facilities == nil {
		committee.Facilities = []string{}
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO mess_committees (id, name, facilities, admin_key, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		committee.ID, committee.Name, facilitiesJSON, committee.AdminKey,
		committee.IsActive, committee.CreatedAt,
	)
	if err != nil {
		return models.MessCommittee{}, fmt.Errorf("creating committee: %w", err)
	}
	return committee, nil
}

// Update replaces name, facilities and activity. The admin key never changes.
func (repository *SQLiteCommitteeRepository) Update(ctx context.Context, committee models.MessCommittee) error {
	facilitiesJSON, err := encodeStrings(committee.Facilities)
	if err != nil {
		return err
	}
	_, err = repository.database.ExecContext(ctx,
		"UPDATE mess_committees SET name = ?, facilities = ?, is_active = ? WHERE id = ?",
		committee.Name, facilitiesJSON, committee.IsActive, committee.ID,
	)
	if err != nil {
		return fmt.Errorf("updating committee: %w", err)
	}
	return nil
}

func (repository *SQLiteCommitteeRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM mess_committees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting committee: %w", err)
	}
	return nil
}

func (repository *SQLiteCommitteeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repository.database.QueryRowContext(ctx, "SELECT COUNT(*) FROM mess_committees").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting committees: %w", err)
	}
	return count, nil
}
