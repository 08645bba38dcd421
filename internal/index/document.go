package index

import (
	"strings"

	"autoshop/internal/domain"
)

// Document is the denormalized index representation of a product.
type Document struct {
	ID           int64
	ClassID      domain.Class
	Virtual      bool
	Published    bool
	Name         string
	Manufacturer string
	Colors       []string
	CarClass     string
	CategoryIDs  []int64
	Price        float64
}

// NewDocument builds the index document; categoryIDs should contain the product category and
// all of its ancestors so listings of a parent category include products of its children.
func NewDocument(p domain.Product, categoryIDs []int64) Document {
	d := Document{
		ID:          p.ProductID(),
		ClassID:     p.Class(),
		Published:   p.IsPublished(),
		Name:        p.OSName(),
		CategoryIDs: categoryIDs,
		Price:       p.Price(),
	}
	switch v := p.(type) {
	case *domain.Car:
		d.Virtual = v.ObjectType == domain.ObjectTypeVirtualCar
		d.Manufacturer = v.Manufacturer
		d.CarClass = v.CarClass
		for _, c := range v.Colors {
			d.Colors = append(d.Colors, strings.ToLower(c))
		}
	case *domain.AccessoryPart:
		d.Manufacturer = v.Manufacturer
	}
	return d
}
