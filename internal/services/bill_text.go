package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
)

const (
	billRule     = "================================"
	currencySign = "₹"
)

func formatAmount(amount float64) string {
	return currencySign + strconv.FormatFloat(amount, 'f', -1, 64)
}

func formatBillMonth(month string) string {
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return parsed.Format("January 2006")
}

func formatBillDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Mon Jan 02 2006")
}

// RenderBillText renders a monthly bill as the plain-text document students
// download. Days and meals are written in the order the bill holds them.
func RenderBillText(bill models.MonthlyBill, generatedAt time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "MESS BILL - %s\n", formatBillMonth(bill.Month))
	builder.WriteString(billRule + "\n\n")

	if bill.MessName != "" {
		fmt.Fprintf(&builder, "Mess: %s\n", bill.MessName)
	}

	fmt.Fprintf(&builder, "Total Amount: %s\n\n", formatAmount(bill.TotalAmount))
	builder.WriteString("DAILY BREAKDOWN:\n")
	builder.WriteString("================\n")

	for _, day := range bill.Days {
		fmt.Fprintf(&builder, "\nDate: %s\n", formatBillDate(day.Date))
		fmt.Fprintf(&builder, "Daily Total: %s\n", formatAmount(day.TotalAmount))
		builder.WriteString("Meals:\n")
		for _, meal := range day.Meals {
			fmt.Fprintf(&builder, "  - %s (%s) - %s\n", meal.MenuItemName, meal.MealType, formatAmount(meal.Price))
		}
	}

	builder.WriteString("\n" + billRule + "\n")
	fmt.Fprintf(&builder, "Generated on: %s\n", generatedAt.Format("1/2/2006"))

	return builder.String()
}

func BillFileName(month string) string {
	return "mess-bill-" + month + ".txt"
}
