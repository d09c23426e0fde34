package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
)

func TestGenerateBillsForMonth_OnlyStudentsWithMeals(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewBillingService(db)
	service.SetClock(fixedClock)
	ctx := context.Background()

	eater := createUser(t, db, "Eater", "eater@example.com", "pw", models.RoleStudent)
	createUser(t, db, "Skipper", "skipper@example.com", "pw", models.RoleStudent)
	admin := createUser(t, db, "Admin", "admin@example.com", "pw", models.RoleAdmin)

	createMealRecord(t, db, eater.ID, "2024-06-01", "Breakfast Combo", 50)
	createMealRecord(t, db, eater.ID, "2024-06-02", "Lunch Special", 80)
	createMealRecord(t, db, eater.ID, "2024-06-03", "Dinner Thali", 90)
	createMealRecord(t, db, eater.ID, "2024-05-31", "Dinner Thali", 90)
	createMealRecord(t, db, admin.ID, "2024-06-03", "Dinner Thali", 90)

	created, err := service.GenerateBillsForMonth(ctx, "2024-06")
	if err != nil {
		t.Fatalf("generating bills: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 bill, got %d", len(created))
	}

	bill := created[0]
	if bill.StudentID != eater.ID || bill.StudentName != "Eater" {
		t.Errorf("unexpected bill owner: %+v", bill)
	}
	if bill.TotalAmount != 220 {
		t.Errorf("expected total 220, got %v", bill.TotalAmount)
	}
	if bill.Status != models.BillStatusPending || bill.DownloadCount != 0 {
		t.Errorf("expected fresh pending bill, got %+v", bill)
	}
	if len(bill.Items) != 3 || bill.Items[0].MealName != "Breakfast Combo" || bill.Items[2].Date != "2024-06-03" {
		t.Errorf("expected items in record order, got %+v", bill.Items)
	}
	if !bill.GeneratedAt.Equal(fixedNow) {
		t.Errorf("expected generatedAt %v, got %v", fixedNow, bill.GeneratedAt)
	}

	all, err := service.ListBills(ctx)
	if err != nil {
		t.Fatalf("listing bills: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 stored bill, got %d", len(all))
	}
}

func TestGenerateBillsForMonth_Idempotent(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewBillingService(db)
	ctx := context.Background()

	student := createUser(t, db, "Student", "s@example.com", "pw", models.RoleStudent)
	createMealRecord(t, db, student.ID, "2024-06-01", "Thali", 80)

	if _, err := service.GenerateBillsForMonth(ctx, "2024-06"); err != nil {
		t.Fatalf("first generation: %v", err)
	}
	created, err := service.GenerateBillsForMonth(ctx, "2024-06")
	if err != nil {
		t.Fatalf("second generation: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("expected second run to create nothing, got %d", len(created))
	}

	bills, err := service.BillsForStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("listing bills: %v", err)
	}
	if len(bills) != 1 {
		t.Errorf("expected exactly 1 bill, got %d", len(bills))
	}
}

func TestGenerateBillsForMonth_MessAssignment(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewBillingService(db)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	mess, err := newMessService(db).Create(ctx, "North Mess", nil, "")
	if err != nil {
		t.Fatalf("creating mess: %v", err)
	}

	member := createUser(t, db, "Member", "m@example.com", "pw", models.RoleStudent)
	member.SelectedMessID = mess.ID
	if err := users.Update(ctx, member); err != nil {
		t.Fatalf("updating member: %v", err)
	}

	orphan := createUser(t, db, "Orphan", "o@example.com", "pw", models.RoleStudent)
	orphan.SelectedMessID = "deleted-mess"
	if err := users.Update(ctx, orphan); err != nil {
		t.Fatalf("updating orphan: %v", err)
	}

	loner := createUser(t, db, "Loner", "l@example.com", "pw", models.RoleStudent)

	for _, user := range []models.User{member, orphan, loner} {
		createMealRecord(t, db, user.ID, "2024-06-10", "Thali", 80)
	}

	if _, err := service.GenerateBillsForMonth(ctx, "2024-06"); err != nil {
		t.Fatalf("generating bills: %v", err)
	}

	messBills, err := service.BillsForMess(ctx, mess.ID)
	if err != nil {
		t.Fatalf("listing mess bills: %v", err)
	}
	if len(messBills) != 1 || messBills[0].StudentID != member.ID || messBills[0].MessName != "North Mess" {
		t.Errorf("expected member bill under North Mess, got %+v", messBills)
	}

	defaultBills, err := service.BillsForMess(ctx, "default")
	if err != nil {
		t.Fatalf("listing default bills: %v", err)
	}
	if len(defaultBills) != 2 {
		t.Fatalf("expected 2 default mess bills, got %d", len(defaultBills))
	}
	for _, bill := range defaultBills {
		if bill.MessName != "Default Mess" {
			t.Errorf("expected Default Mess, got %q", bill.MessName)
		}
	}
}

func TestGenerateBillsForMonth_InvalidMonth(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewBillingService(db)

	for _, month := range []string{"", "2024-6", "June", "2024-13", "2024-06-01"} {
		if _, err := service.GenerateBillsForMonth(context.Background(), month); !errors.Is(err, services.ErrInvalidMonth) {
			t.Errorf("month %q: expected invalid month, got %v", month, err)
		}
	}
}

func TestGeneratePreviousMonth_RunsOncePerMonth(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewBillingService(db)
	service.SetClock(func() time.Time { return time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC) })
	ctx := context.Background()

	student := createUser(t, db, "Student", "s@example.com", "pw", models.RoleStudent)
	createMealRecord(t, db, student.ID, "2024-06-20", "Thali", 80)

	count, err := service.GeneratePreviousMonth(ctx)
	if err != nil {
		t.Fatalf("generating previous month: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 bill, got %d", count)
	}

	last, err := repository.NewSettingsRepository(db).Get(ctx, repository.SettingLastBilledMonth)
	if err != nil {
		t.Fatalf("reading last billed month: %v", err)
	}
	if last != "2024-06" {
		t.Errorf("expected 2024-06, got %q", last)
	}

	count, err = service.GeneratePreviousMonth(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if count != 0 {
		t.Errorf("expected second run to skip, got %d", count)
	}
}

func TestBillStatusAndDownloads(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewBillingService(db)
	ctx := context.Background()

	student := createUser(t, db, "Student", "s@example.com", "pw", models.RoleStudent)
	createMealRecord(t, db, student.ID, "2024-06-01", "Thali", 80)

	created, err := service.GenerateBillsForMonth(ctx, "2024-06")
	if err != nil || len(created) != 1 {
		t.Fatalf("generating bills: %v (%d)", err, len(created))
	}
	id := created[0].ID

	if err := service.UpdateBillStatus(ctx, id, models.BillStatusPaid); err != nil {
		t.Fatalf("updating status: %v", err)
	}
	if err := service.UpdateBillStatus(ctx, "unknown", models.BillStatusPaid); err != nil {
		t.Errorf("expected unknown bill to be ignored, got %v", err)
	}
	if err := service.UpdateBillStatus(ctx, id, "overdue"); !errors.Is(err, services.ErrInvalidBillStatus) {
		t.Errorf("expected invalid status error, got %v", err)
	}
	if err := service.RecordDownload(ctx, id); err != nil {
		t.Fatalf("recording download: %v", err)
	}

	bill, err := service.Get(ctx, id)
	if err != nil {
		t.Fatalf("loading bill: %v", err)
	}
	if bill.Status != models.BillStatusPaid || bill.DownloadCount != 1 {
		t.Errorf("expected paid bill with 1 download, got %+v", bill)
	}

	if sent := service.SendBillNotifications(ctx, []string{id, "other"}); sent != 2 {
		t.Errorf("expected 2 notifications, got %d", sent)
	}
}

func TestDailySummary(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewBillingService(db)
	records := repository.NewMealRecordRepository(db)
	ctx := context.Background()

	for _, record := range []models.MealRecord{
		{UserID: "a", Date: "2024-06-15", PurchaseSnapshot: models.PurchaseSnapshot{Price: 50, MessID: "m1"}},
		{UserID: "a", Date: "2024-06-15", PurchaseSnapshot: models.PurchaseSnapshot{Price: 80, MessID: "m1"}},
		{UserID: "b", Date: "2024-06-15", PurchaseSnapshot: models.PurchaseSnapshot{Price: 90, MessID: "m2"}},
		{UserID: "b", Date: "2024-06-14", PurchaseSnapshot: models.PurchaseSnapshot{Price: 90, MessID: "m2"}},
	} {
		if _, err := records.Create(ctx, record); err != nil {
			t.Fatalf("creating record: %v", err)
		}
	}

	summary, err := service.DailySummary(ctx, "2024-06-15", "")
	if err != nil {
		t.Fatalf("summarising: %v", err)
	}
	if summary.TotalAmount != 220 || summary.MealCount != 3 || summary.StudentCount != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	summary, err = service.DailySummary(ctx, "2024-06-15", "m1")
	if err != nil {
		t.Fatalf("summarising mess: %v", err)
	}
	if summary.TotalAmount != 130 || summary.MealCount != 2 || summary.StudentCount != 1 {
		t.Errorf("unexpected mess summary: %+v", summary)
	}
}
