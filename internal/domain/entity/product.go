package entity

import "time"

type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
	Sizes       []string  `json:"sizes"`
	Gender      string    `json:"gender"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewSampleProduct returns the placeholder admins start from when they create
// a product without filling in every field.
func NewSampleProduct() *Product {
	return &Product{
		Name:        "Sample Product",
		Description: "Sample Description",
		Brand:       "Sample Brand",
		Category:    "Sample Category",
		Price:       0,
		Stock:       0,
		Images:      []string{"/images/sample.jpg"},
		Sizes:       []string{"US 8"},
		Gender:      "Unisex",
	}
}

// ProductUpdate carries a partial product edit; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Brand       *string
	Category    *string
	Price       *float64
	Stock       *int
	Images      []string
	Sizes       []string
	Gender      *string
}

func (p *Product) Apply(u ProductUpdate) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Brand != nil {
		p.Brand = *u.Brand
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	if u.Sizes != nil {
		p.Sizes = u.Sizes
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
}

type ProductSummary struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
