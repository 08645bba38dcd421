package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutocompleteLabel(t *testing.T) {
	car := &Car{BaseProduct: BaseProduct{Name: "Jaguar E-Type"}, Colors: []string{"red", "black"}, CarClass: "Sports Car"}
	assert.Equal(t, "Jaguar E-Type red, Sports Car", car.AutocompleteLabel())

	car.Colors = nil
	assert.Equal(t, "Jaguar E-Type, Sports Car", car.AutocompleteLabel())

	ap := &AccessoryPart{BaseProduct: BaseProduct{Name: "Chrome Hubcap"}}
	assert.Equal(t, "Chrome Hubcap", ap.AutocompleteLabel())
}

func TestDisplayable(t *testing.T) {
	assert.True(t, (&Car{ObjectType: ObjectTypeActualCar}).Displayable())
	assert.False(t, (&Car{ObjectType: ObjectTypeVirtualCar}).Displayable())
	assert.True(t, (&AccessoryPart{}).Displayable())
}

func TestPerPage(t *testing.T) {
	var nilDef *FilterDefinition
	assert.Equal(t, DefaultPageLimit, nilDef.PerPage())
	assert.Equal(t, DefaultPageLimit, (&FilterDefinition{}).PerPage())
	assert.Equal(t, 3, (&FilterDefinition{PageLimit: 3}).PerPage())
}
