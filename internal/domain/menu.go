package domain

import (
	"encoding/json" // JSON decoding of loosely typed numbers
	"strconv"       // Number parsing
	"strings"       // String manipulation

	"github.com/sirupsen/logrus" // Logging of unreadable records
)

// Menu categories offered by the add and edit forms
var MenuCategoryOptions = []string{"Starter", "Main Course", "Dessert", "Beverage"}

// Veg types offered by the add and edit forms
const (
	VegTypeVeg    = "Veg"     // Vegetarian dish
	VegTypeNonVeg = "Non-Veg" // Non-vegetarian dish
)

// VegTypeOptions lists the allowed veg types in form order
var VegTypeOptions = []string{VegTypeVeg, VegTypeNonVeg}

// Default values of an empty add form
const (
	DefaultMenuCategory = "Starter"  // First category option
	DefaultVegType      = VegTypeVeg // First veg type option
)

// CategoryAll is the pseudo category that disables filtering
const CategoryAll = "All"

// Number is a float that the backend may send either as a JSON number or a string
type Number float64

// UnmarshalJSON accepts 12.5, "12.5", "" and null. Anything else decodes as 0
// so one bad record never hides the rest of a list.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return nil
		}
		s = str
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logrus.WithField("value", s).Warn("Unreadable number from the backend, using 0")
		return nil
	}
	*n = Number(f)
	return nil
}

// String formats the number without trailing zeros
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// MenuItem represents a dish on the restaurant menu
type MenuItem struct {
	ID          string `json:"_id,omitempty"` // Backend identifier
	Name        string `json:"name"`          // Dish name
	Description string `json:"description"`   // Dish description
	Price       Number `json:"price"`         // Price in rupees
	Image       string `json:"image"`         // Image URL
	Category    string `json:"category"`      // One of MenuCategoryOptions
	VegType     string `json:"vegType"`       // Veg or Non-Veg
}

// NewMenuItem returns a menu item carrying the add form defaults
func NewMenuItem() MenuItem {
	return MenuItem{Category: DefaultMenuCategory, VegType: DefaultVegType}
}

// IsVeg reports whether the dish is vegetarian
func (m MenuItem) IsVeg() bool {
	return m.VegType == VegTypeVeg
}

// MenuPayload is the body sent on create and partial update
type MenuPayload struct {
	Name        string  `json:"name"`        // Dish name
	Description string  `json:"description"` // Dish description
	Price       float64 `json:"price"`       // Price in rupees
	Image       string  `json:"image"`       // Image URL
	Category    string  `json:"category"`    // Category
	VegType     string  `json:"vegType"`     // Veg type
}

// Payload returns the request body for the item
func (m MenuItem) Payload() MenuPayload {
	return MenuPayload{
		Name:        strings.TrimSpace(m.Name),
		Description: strings.TrimSpace(m.Description),
		Price:       float64(m.Price),
		Image:       strings.TrimSpace(m.Image),
		Category:    m.Category,
		VegType:     m.VegType,
	}
}

// FindMenuItem returns the item with the given identifier
func FindMenuItem(items []MenuItem, id string) (MenuItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return MenuItem{}, false
}

// MenuCategories returns "All" followed by each category in order of first appearance
func MenuCategories(items []MenuItem) []string {
	cats := []string{CategoryAll}
	seen := map[string]bool{CategoryAll: true}
	for _, it := range items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		cats = append(cats, it.Category)
	}
	return cats
}

// FilterByCategory keeps the items of one category, "All" or "" keeps everything
func FilterByCategory(items []MenuItem, category string) []MenuItem {
	if category == "" || category == CategoryAll {
		return items
	}
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// FeaturedItems picks up to n items from the featured categories.
// When no item belongs to one of them the first n items are used instead.
func FeaturedItems(items []MenuItem, categories []string, n int) []MenuItem {
	out := make([]MenuItem, 0, n)
	for _, it := range items {
		if len(out) == n {
			break
		}
		if contains(categories, it.Category) {
			out = append(out, it)
		}
	}
	if len(out) > 0 {
		return out
	}
	if len(items) < n {
		n = len(items)
	}
	return append(out, items[:n]...)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
