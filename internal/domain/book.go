package domain

import "fmt"

// Book is an immutable catalog entry. Price is in cents.
type Book struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ImageURL    string   `json:"image_url"`
	Price       int64    `json:"price"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
}

// FormatPrice renders cents as a dollar amount, e.g. 2050 -> "$20.50".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
