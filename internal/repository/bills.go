package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type BillFilter struct {
	StudentID string
	MessID    string
	Month     string
}

type BillRepository interface {
	FindByID(ctx context.Context, id string) (models.Bill, error)
	FindAll(ctx context.Context, filter BillFilter) ([]models.Bill, error)
	FindByStudentAndMonth(ctx context.Context, studentID string, month string) (models.Bill, error)
	Create(ctx context.Context, bill models.Bill) (models.Bill, error)
	UpdateStatus(ctx context.Context, id string, status models.BillStatus) (bool, error)
	IncrementDownloadCount(ctx context.Context, id string) (bool, error)
}

type SQLiteBillRepository struct {
	database Querier
}

func NewBillRepository(database Querier) *SQLiteBillRepository {
	return &SQLiteBillRepository{database: database}
}

const billColumns = `id, student_id, student_name, mess_id, mess_name, month, total_amount,
	status, generated_at, download_count, items`

func scanBill(row rowScanner) (models.Bill, error) {
	var bill models.Bill
	var itemsJSON string
	if err := row.Scan(
		&bill.ID, &bill.StudentID, &bill.StudentName, &bill.MessID, &bill.MessName, &bill.Month,
		&bill.TotalAmount, &bill.Status, &bill.GeneratedAt, &bill.DownloadCount, &itemsJSON,
	); err != nil {
		return models.Bill{}, err
	}
	bill.Items = []models.BillItem{}
	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &bill.Items); err != nil {
			return models.Bill{}, fmt.Errorf("unmarshalling bill items: %w", err)
		}
	}
	return bill, nil
}

func (repository *SQLiteBillRepository) FindByID(ctx context.Context, id string) (models.Bill, error) {
	bill, err := scanBill(repository.database.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = ?", id,
	))
	if err != nil {
		return models.Bill{}, fmt.Errorf("finding bill by id: %w", err)
	}
	return bill, nil
}

func (repository *SQLiteBillRepository) FindByStudentAndMonth(ctx context.Context, studentID string, month string) (models.Bill, error) {
	bill, err := scanBill(repository.database.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE student_id = ? AND month = ?", studentID, month,
	))
	if err != nil {
		return models.Bill{}, fmt.Errorf("finding bill by student and month: %w", err)
	}
	return bill, nil
}

// FindAll returns bills newest month first.
func (repository *SQLiteBillRepository) FindAll(ctx context.Context, filter BillFilter) ([]models.Bill, error) {
	query := "SELECT " + billColumns + " FROM bills WHERE 1=1"

	var args []interface{}

	if filter.StudentID != "" {
		query += " AND student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.MessID != "" {
		query += " AND mess_id = ?"
		args = append(args, filter.MessID)
	}
	if filter.Month != "" {
		query += " AND month = ?"
		args = append(args, filter.Month)
	}

	query += " ORDER BY month DESC, rowid"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func (repository *SQLiteBillRepository) Create(ctx context.Context, bill models.Bill) (models.Bill, error) {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.GeneratedAt.IsZero() {
		bill.GeneratedAt = time.Now()
	}
	if bill.Status == "" {
		bill.Status = models.BillStatusPending
	}
	if bill.Items == nil {
		bill.Items = []models.BillItem{}
	}

	itemsJSON, err := json.Marshal(bill.Items)
	if err != nil {
		return models.Bill{}, fmt.Errorf("marshalling bill items: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		"INSERT INTO bills ("+billColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		bill.ID, bill.StudentID, bill.StudentName, bill.MessID, bill.MessName, bill.Month,
		bill.TotalAmount, bill.Status, bill.GeneratedAt, bill.DownloadCount, string(itemsJSON),
	)
	if err != nil {
		return models.Bill{}, fmt.Errorf("creating bill: %w", err)
	}
	return bill, nil
}

func (repository *SQLiteBillRepository) UpdateStatus(ctx context.Context, id string, status models.BillStatus) (bool, error) {
	return repository.exec(ctx, "updating bill status",
		"UPDATE bills SET status = ? WHERE id = ?", status, id,
	)
}

func (repository *SQLiteBillRepository) IncrementDownloadCount(ctx context.Context, id string) (bool, error) {
	return repository.exec(ctx, "recording bill download",
		"UPDATE bills SET download_count = download_count + 1 WHERE id = ?", id,
	)
}

func (repository *SQLiteBillRepository) exec(ctx context.Context, operation string, query string, args ...any) (bool, error) {
	result, err := repository.database.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", operation, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", operation, err)
	}
	return affected > 0, nil
}
