package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog product. Created and mutated only by admin
// actions; cart and order logic read it to resolve price and existence.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Features    []string           `bson:"features" json:"features"`
	Images      []string           `bson:"images" json:"images"`
	Category    string             `bson:"category" json:"category"`
	SubCategory string             `bson:"sub_category" json:"subCategory"`
	Colors      []string           `bson:"colors" json:"colors"`
	Discount    float64            `bson:"discount" json:"discount"`
	InStock     bool               `bson:"in_stock" json:"inStock"`
	Rating      float64            `bson:"rating" json:"rating"`
	Bestseller  bool               `bson:"bestseller" json:"bestseller"`
	Date        int64              `bson:"date" json:"date"`
}

// FirstImage returns the first non-empty image URL, if any. Image lists may
// contain empty slots left by partial uploads.
func (p *Product) FirstImage() string {
	for _, img := range p.Images {
		if img != "" {
			return img
		}
	}
	return ""
}
