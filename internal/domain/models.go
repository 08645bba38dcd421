package domain

import "errors"

// Class identifies the concrete product variant, stored as the class id column.
type Class string

const (
	ClassCar           Class = "CAR"
	ClassAccessoryPart Class = "AP"
)

const (
	ObjectTypeVirtualCar = "virtual-car"
	ObjectTypeActualCar  = "actual-car"
)

var ErrUnknownClass = errors.New("unknown product class")

// Product is implemented by every sellable catalog entry.
type Product interface {
	ProductID() int64
	OSName() string
	IsPublished() bool
	Class() Class
	CategoryID() int64
	Price() float64
	// Displayable reports whether the product may be shown on a public detail page.
	Displayable() bool
	// AutocompleteLabel is the compact display string used by search suggestions.
	AutocompleteLabel() string
}

type BaseProduct struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	Published bool    `db:"published"`
	Category  int64   `db:"category_id"`
	PriceEUR  float64 `db:"price"`
	ImagePath string  `db:"image_path"`
	CreatedAt string  `db:"created_at"`
}

func (b *BaseProduct) ProductID() int64  { return b.ID }
func (b *BaseProduct) OSName() string    { return b.Name }
func (b *BaseProduct) IsPublished() bool { return b.Published }
func (b *BaseProduct) CategoryID() int64 { return b.Category }
func (b *BaseProduct) Price() float64    { return b.PriceEUR }

type Car struct {
	BaseProduct
	ObjectType   string
	ParentID     int64
	Manufacturer string
	Colors       []string
	CarClass     string
	AccessoryIDs []int64
}

func (c *Car) Class() Class { return ClassCar }

// Displayable is true only for concrete cars; virtual cars group their variants.
func (c *Car) Displayable() bool { return c.ObjectType == ObjectTypeActualCar }

func (c *Car) FirstColor() string {
	if len(c.Colors) == 0 {
		return ""
	}
	return c.Colors[0]
}

func (c *Car) AutocompleteLabel() string {
	label := c.Name
	if color := c.FirstColor(); color != "" {
		label += " " + color
	}
	return label + ", " + c.CarClass
}

type AccessoryPart struct {
	BaseProduct
	Manufacturer    string
	CompatibleToIDs []int64
}

func (a *AccessoryPart) Class() Class              { return ClassAccessoryPart }
func (a *AccessoryPart) Displayable() bool         { return true }
func (a *AccessoryPart) AutocompleteLabel() string { return a.Name }

type Category struct {
	ID                 int64  `db:"id"`
	Name               string `db:"name"`
	ParentID           int64  `db:"parent_id"`
	FilterDefinitionID int64  `db:"filter_definition_id"`
}
