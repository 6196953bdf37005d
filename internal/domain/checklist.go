package domain

// ChecklistItem is static reference data seeded once, not created through app flow.
type ChecklistItem struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	ItemName    string  `json:"itemName"`
	Description *string `json:"description"`
	Weight      float64 `json:"weight"`
	Order       int     `json:"order"`
	IsActive    bool    `json:"isActive"`
}
