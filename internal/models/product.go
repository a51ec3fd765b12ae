package models

import "gorm.io/gorm"

// Product is one catalog entry. Available gates whether it can be ordered;
// sold-out products stay in the catalog with Available false.
type Product struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"size:1024" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Category    string  `gorm:"size:128;index" json:"category"`
	ImageURL    string  `gorm:"size:512" json:"imageUrl"`
	Available   bool    `gorm:"not null;default:true" json:"available"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"imageUrl"`
}

type ToggleAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Available   bool    `json:"available"`
}

// MenuResponse groups the available products by category for display.
type MenuResponse struct {
	Categories map[string][]ProductResponse `json:"categories"`
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
	}
}
