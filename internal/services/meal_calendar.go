package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	ical "github.com/arran4/golang-ical"
)

// MealCalendar renders meal records as all-day events, one per record.
// Records with an unparsable date are skipped.
func MealCalendar(records []models.MealRecord, ownerName string, stamp time.Time) string {
	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId("-//Mess Manager//Meal History//EN")
	calendar.SetName(strings.TrimSpace(ownerName + " Meals"))

	for _, record := range records {
		day, err := time.Parse("2006-01-02", record.Date)
		if err != nil {
			continue
		}

		event := calendar.AddEvent(record.ID + "@mess-manager")
		event.SetSummary(fmt.Sprintf("[%s] %s", capitalizeFirst(string(record.MealType)), record.MenuItemName))

		description := "Price: " + formatAmount(record.Price)
		if record.MessName != "" {
			description += "\nMess: " + record.MessName
		}
		event.SetDescription(description)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetDtStampTime(stamp.UTC())
	}

	return calendar.Serialize()
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
