package models

import "slices"

const (
	CategoryGeneral  = "General"
	CategoryMeatFish = "Meat and Fish"
	CategoryFruitVeg = "Fruit and Veg"
	CategoryMeatMeal = "Meat Meal"
	CategoryVegMeal  = "Veg Meal"
	CategorySweet    = "Sweet"
)

// Categories lists the fixed item categories in display order.
var Categories = []string{
	CategoryGeneral,
	CategoryMeatFish,
	CategoryFruitVeg,
	CategoryMeatMeal,
	CategoryVegMeal,
	CategorySweet,
}

func IsCategory(s string) bool {
	return slices.Contains(Categories, s)
}
