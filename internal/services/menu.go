package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Uditkumarpal/messy-meal-manager/internal/database"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

var ErrInvalidMenuItem = errors.New("menu item needs a name, a known category and a non-negative price")

type MenuService struct {
	database *sql.DB
	menuRepo repository.MenuItemRepository
	mealRepo repository.MealRecordRepository
}

func NewMenuService(db *sql.DB) *MenuService {
	return &MenuService{
		database: db,
		menuRepo: repository.NewMenuItemRepository(db),
		mealRepo: repository.NewMealRecordRepository(db),
	}
}

type ItemFeedback struct {
	Item           models.MenuItem `json:"item"`
	TotalFeedback  int             `json:"totalFeedback"`
	LikePercentage int             `json:"likePercentage"`
}

func (service *MenuService) List(ctx context.Context, category models.MealType) ([]models.MenuItem, error) {
	return service.menuRepo.FindAll(ctx, repository.MenuItemFilter{Category: category})
}

func (service *MenuService) ListForMess(ctx context.Context, messID string) ([]models.MenuItem, error) {
	return service.menuRepo.FindAll(ctx, repository.MenuItemFilter{MessID: messID})
}

func (service *MenuService) Get(ctx context.Context, id string) (models.MenuItem, error) {
	item, err := service.menuRepo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MenuItem{}, ErrNotFound
	}
	return item, err
}

// Save inserts the item when its id is empty or unknown and replaces the
// stored item otherwise.
func (service *MenuService) Save(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" || item.Price < 0 || !item.Category.Valid() {
		return models.MenuItem{}, ErrInvalidMenuItem
	}

	if item.ID != "" {
		_, err := service.menuRepo.FindByID(ctx, item.ID)
		if err == nil {
			if err := service.menuRepo.Update(ctx, item); err != nil {
				return models.MenuItem{}, err
			}
			return item, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return models.MenuItem{}, err
		}
	}

	return service.menuRepo.Create(ctx, item)
}

func (service *MenuService) Delete(ctx context.Context, id string) error {
	return service.menuRepo.Delete(ctx, id)
}

func (service *MenuService) Like(ctx context.Context, menuItemID, userID string) error {
	return service.rate(ctx, menuItemID, userID, models.RatingLike)
}

func (service *MenuService) Dislike(ctx context.Context, menuItemID, userID string) error {
	return service.rate(ctx, menuItemID, userID, models.RatingDislike)
}

// rate bumps the counter for rating and moves the user's existing records of
// the item over to it. If any of those records held the opposite rating, the
// opposite counter gives back one, once per call.
func (service *MenuService) rate(ctx context.Context, menuItemID, userID string, rating models.Rating) error {
	return database.WithTransaction(ctx, service.database, func(transaction *sql.Tx) error {
		menuRepo := repository.NewMenuItemRepository(transaction)
		mealRepo := repository.NewMealRecordRepository(transaction)

		item, err := menuRepo.FindByID(ctx, menuItemID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		opposite := models.RatingDislike
		if rating == models.RatingDislike {
			opposite = models.RatingLike
		}

		if rating == models.RatingLike {
			item.Likes++
		} else {
			item.Dislikes++
		}

		records, err := mealRepo.FindAll(ctx, repository.MealRecordFilter{UserID: userID, MenuItemID: menuItemID})
		if err != nil {
			return err
		}
		heldOpposite := false
		for _, record := range records {
			if record.UserRating == opposite {
				heldOpposite = true
			}
			if record.UserRating != rating {
				if err := mealRepo.UpdateRating(ctx, record.ID, rating); err != nil {
					return err
				}
			}
		}
		if heldOpposite {
			if opposite == models.RatingLike {
				item.Likes = max(0, item.Likes-1)
			} else {
				item.Dislikes = max(0, item.Dislikes-1)
			}
		}

		if err := menuRepo.UpdateFeedback(ctx, item.ID, item.Likes, item.Dislikes); err != nil {
			return fmt.Errorf("saving feedback: %w", err)
		}
		return nil
	})
}

// UserRating is the rating on the user's most recent record of the item.
func (service *MenuService) UserRating(ctx context.Context, userID, menuItemID string) (models.Rating, error) {
	records, err := service.mealRepo.FindAll(ctx, repository.MealRecordFilter{UserID: userID, MenuItemID: menuItemID})
	if err != nil {
		return models.RatingNone, err
	}
	if len(records) == 0 {
		return models.RatingNone, nil
	}
	return records[len(records)-1].UserRating, nil
}

// FeedbackRanking lists items by likes, most liked first.
func (service *MenuService) FeedbackRanking(ctx context.Context, category models.MealType) ([]ItemFeedback, error) {
	items, err := service.List(ctx, category)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Likes > items[j].Likes
	})

	ranking := make([]ItemFeedback, 0, len(items))
	for _, item := range items {
		total := item.Likes + item.Dislikes
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(float64(item.Likes) / float64(total) * 100))
		}
		ranking = append(ranking, ItemFeedback{Item: item, TotalFeedback: total, LikePercentage: percentage})
	}
	return ranking, nil
}
