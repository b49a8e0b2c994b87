package models

import (
	"fmt"
	"math/rand"
	"time"
)

// Reserved and well-known category identifiers. Default category ids are
// stable string constants; CategoryUncategorized can never be deleted or renamed.
const (
	CategoryUncategorized = "uncategorized"
	CategoryGroceries     = "groceries"
	CategoryRestaurants   = "restaurants"
	CategoryEntertainment = "entertainment"
	CategoryShopping      = "shopping"
	CategoryTransport     = "transport"
	CategoryUtilities     = "utilities"
	CategoryHealth        = "health"
	CategorySubscriptions = "subscriptions"
	CategoryTravel        = "travel"
	CategoryIncome        = "income"
	CategoryFees          = "fees"
	CategoryHousing       = "housing"
)

// Category describes a spending category. Categories form a flat namespace.
type Category struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color" yaml:"color"`
	Icon      string `json:"icon" yaml:"icon"`
	HasBudget bool   `json:"hasBudget" yaml:"hasBudget"`
	IsDefault bool   `json:"isDefault" yaml:"isDefault"`
}

// CategoryOverride records user edits to a default category. Defaults are
// never mutated in place so the factory definition can always be restored.
type CategoryOverride struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name,omitempty"`
	Color      string `json:"color,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Hidden     bool   `json:"hidden"`
}

// DefaultCategories returns the built-in category set.
func DefaultCategories() []Category {
	return []Category{
		{ID: CategoryGroceries, Name: "Groceries", Color: "#4caf50", Icon: "cart", HasBudget: true, IsDefault: true},
		{ID: CategoryRestaurants, Name: "Restaurants", Color: "#ff9800", Icon: "utensils", HasBudget: true, IsDefault: true},
		{ID: CategoryEntertainment, Name: "Entertainment", Color: "#9c27b0", Icon: "film", HasBudget: true, IsDefault: true},
		{ID: CategoryShopping, Name: "Shopping", Color: "#2196f3", Icon: "bag", HasBudget: true, IsDefault: true},
		{ID: CategoryTransport, Name: "Transport", Color: "#607d8b", Icon: "bus", HasBudget: true, IsDefault: true},
		{ID: CategoryUtilities, Name: "Utilities", Color: "#795548", Icon: "bolt", HasBudget: true, IsDefault: true},
		{ID: CategoryHealth, Name: "Health", Color: "#f44336", Icon: "heart", HasBudget: true, IsDefault: true},
		{ID: CategorySubscriptions, Name: "Subscriptions", Color: "#3f51b5", Icon: "repeat", HasBudget: true, IsDefault: true},
		{ID: CategoryTravel, Name: "Travel", Color: "#00bcd4", Icon: "plane", HasBudget: true, IsDefault: true},
		{ID: CategoryIncome, Name: "Income", Color: "#8bc34a", Icon: "wallet", IsDefault: true},
		{ID: CategoryFees, Name: "Fees & Charges", Color: "#9e9e9e", Icon: "receipt", IsDefault: true},
		{ID: CategoryHousing, Name: "Housing", Color: "#673ab7", Icon: "home", HasBudget: true, IsDefault: true},
		{ID: CategoryUncategorized, Name: "Uncategorized", Color: "#bdbdbd", Icon: "question", IsDefault: true},
	}
}

// NewCategoryID generates an identifier for a user-created category.
// Ids are time-plus-random so they sort roughly by creation order.
func NewCategoryID() string {
	return fmt.Sprintf("cat_%d_%04d", time.Now().UnixMilli(), rand.Intn(10000))
}
