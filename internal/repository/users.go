package repository

import (
	"context"
	"fmt"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.User, error)
	FindByMessID(ctx context.Context, messID string) ([]models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type SQLiteUserRepository struct {
	database Querier
}

func NewUserRepository(database Querier) *SQLiteUserRepository {
	return &SQLiteUserRepository{database: database}
}

const userColumns = "id, name, email, password, role, student_id, selected_mess_id, admin_key, mess_name"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role,
		&user.StudentID, &user.SelectedMessID, &user.AdminKey, &user.MessName,
	)
	return user, err
}

func (repository *SQLiteUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	user, err := scanUser(repository.database.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id,
	))
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by id: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := scanUser(repository.database.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email,
	))
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by email: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return repository.query(ctx, "finding all users",
		"SELECT "+userColumns+" FROM users ORDER BY rowid",
	)
}

func (repository *SQLiteUserRepository) FindByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return repository.query(ctx, "finding users by role",
		"SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY rowid", role,
	)
}

func (repository *SQLiteUserRepository) FindByMessID(ctx context.Context, messID string) ([]models.User, error) {
	return repository.query(ctx, "finding users by mess",
		"SELECT "+userColumns+" FROM users WHERE selected_mess_id = ? ORDER BY rowid", messID,
	)
}

func (repository *SQLiteUserRepository) query(ctx context.Context, operation string, query string, args ...any) ([]models.User, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (repository *SQLiteUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.Password, user.Role,
		user.StudentID, user.SelectedMessID, user.AdminKey, user.MessName,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) Update(ctx context.Context, user models.User) error {
	_, err := repository.database.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password = ?, role = ?, student_id = ?,
			selected_mess_id = ?, admin_key = ?, mess_name = ?
		WHERE id = ?`,
		user.Name, user.Email, user.Password, user.Role, user.StudentID,
		user.SelectedMessID, user.AdminKey, user.MessName, user.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (repository *SQLiteUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted users: %w", err)
	}
	return affected > 0, nil
}

func (repository *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repository.database.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}
