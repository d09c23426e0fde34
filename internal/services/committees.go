package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

type CommitteeService struct {
	committeeRepo repository.CommitteeRepository
	now           func() time.Time
}

func NewCommitteeService(committeeRepo repository.CommitteeRepository) *CommitteeService {
	return &CommitteeService{committeeRepo: committeeRepo, now: time.Now}
}

func (service *CommitteeService) List(ctx context.Context) ([]models.MessCommittee, error) {
	return service.committeeRepo.FindAll(ctx)
}

// Create derives the committee key from its name and the creation time in
// unix milliseconds, e.g. NORTH_BLOCK_1718000000000.
func (service *CommitteeService) Create(ctx context.Context, name string, facilities []string) (models.MessCommittee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.MessCommittee{}, fmt.Errorf("committee name is required")
	}
	createdAt := service.now()
	return service.committeeRepo.Create(ctx, models.MessCommittee{
		Name:       name,
		Facilities: facilities,
		AdminKey:   fmt.Sprintf("%s_%d", models.CommitteeKeyPrefix(name), createdAt.UnixMilli()),
		IsActive:   true,
		CreatedAt:  createdAt,
	})
}

// CommitteeUpdate holds the fields to change; nil fields are left alone.
type CommitteeUpdate struct {
	Name       *string
	Facilities []string
	IsActive   *bool
}

// Update merges update into the stored committee. Unknown ids are ignored and
// the admin key is never touched.
func (service *CommitteeService) Update(ctx context.Context, id string, update CommitteeUpdate) error {
	committee, err := service.committeeRepo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading committee: %w", err)
	}

	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		committee.Name = strings.TrimSpace(*update.Name)
	}
	if update.Facilities != nil {
		committee.Facilities = update.Facilities
	}
	if update.IsActive != nil {
		committee.IsActive = *update.IsActive
	}
	return service.committeeRepo.Update(ctx, committee)
}

func (service *CommitteeService) Delete(ctx context.Context, id string) error {
	return service.committeeRepo.Delete(ctx, id)
}

func (service *CommitteeService) VerifyKey(ctx context.Context, committeeID, key string) (bool, error) {
	committees, err := service.committeeRepo.FindAll(ctx)
	if err != nil {
		return false, err
	}
	for _, committee := range committees {
		if committee.ID == committeeID {
			return committee.AdminKey == key, nil
		}
	}
	return false, nil
}
