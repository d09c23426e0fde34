package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnacks    MealType = "snacks"
)

func (mealType MealType) Valid() bool {
	switch mealType {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnacks:
		return true
	}
	return false
}

type Rating string

const (
	RatingNone    Rating = ""
	RatingLike    Rating = "like"
	RatingDislike Rating = "dislike"
)

type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRejected PaymentStatus = "rejected"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"-"`
	Role           Role   `json:"role"`
	StudentID      string `json:"studentId,omitempty"`
	SelectedMessID string `json:"selectedMessId,omitempty"`
	AdminKey       string `json:"adminKey,omitempty"`
	MessName       string `json:"messName,omitempty"`
}

func (user User) IsAdmin() bool      { return user.Role == RoleAdmin }
func (user User) IsStudent() bool    { return user.Role == RoleStudent }
func (user User) IsSuperAdmin() bool { return user.Role == RoleSuperAdmin }

type Mess struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AdminKey    string    `json:"adminKey"`
	Facilities  []string  `json:"facilities"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	Description string    `json:"description,omitempty"`
}

type AdminKey struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	MessID    string    `json:"messId"`
	MessName  string    `json:"messName"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
}

type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    MealType `json:"category"`
	Available   bool     `json:"available"`
	Likes       int      `json:"likes"`
	Dislikes    int      `json:"dislikes"`
	MessID      string   `json:"messId,omitempty"`
}

// PurchaseSnapshot is frozen when a meal is recorded. Later edits to the menu
// item or the mess never reach records that already carry a snapshot.
type PurchaseSnapshot struct {
	MenuItemName string   `json:"menuItemName"`
	Price        float64  `json:"price"`
	MealType     MealType `json:"mealType"`
	MessID       string   `json:"messId,omitempty"`
	MessName     string   `json:"messName,omitempty"`
}

type MealRecord struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	MenuItemID string `json:"menuItemId"`
	Date       string `json:"date"`
	UserRating Rating `json:"userRating,omitempty"`
	PurchaseSnapshot
}

// Month returns the YYYY-MM prefix of the record date.
func (record MealRecord) Month() string {
	return MonthOf(record.Date)
}

func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

type DailyConsumption struct {
	Date        string       `json:"date"`
	TotalAmount float64      `json:"totalAmount"`
	Meals       []MealRecord `json:"meals"`
}

type MonthlyBill struct {
	Month       string             `json:"month"`
	TotalAmount float64            `json:"totalAmount"`
	Days        []DailyConsumption `json:"days"`
	MessID      string             `json:"messId,omitempty"`
	MessName    string             `json:"messName,omitempty"`
}

type BillItem struct {
	Date     string   `json:"date"`
	MealName string   `json:"mealName"`
	MealType MealType `json:"mealType"`
	Price    float64  `json:"price"`
}

type Bill struct {
	ID            string     `json:"id"`
	StudentID     string     `json:"studentId"`
	StudentName   string     `json:"studentName"`
	MessID        string     `json:"messId"`
	MessName      string     `json:"messName"`
	Month         string     `json:"month"`
	TotalAmount   float64    `json:"totalAmount"`
	Status        BillStatus `json:"status"`
	GeneratedAt   time.Time  `json:"generatedAt"`
	DownloadCount int        `json:"downloadCount"`
	Items         []BillItem `json:"items"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Subject    string    `json:"subject"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  Priority  `json:"priority"`
	IsPinned  bool      `json:"isPinned"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessCommittee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Facilities []string  `json:"facilities"`
	AdminKey   string    `json:"adminKey"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AdminRequest struct {
	ID              string        `json:"id"`
	MessName        string        `json:"messName"`
	AdminName       string        `json:"adminName"`
	AdminEmail      string        `json:"adminEmail"`
	BusinessDetails string        `json:"businessDetails"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	RequestStatus   RequestStatus `json:"requestStatus"`
	AdminKey        string        `json:"adminKey,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// CommitteeKeyPrefix upper-cases the committee name and joins whitespace runs
// with underscores.
func CommitteeKeyPrefix(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), "_")
}
