package domain

// Category is the closed set of product categories
type Category string

const (
	CategorySkincare  Category = "skincare"
	CategoryUVCare    Category = "uvcare"
	CategoryBasemake  Category = "basemake"
	CategoryPointmake Category = "pointmake"
	CategoryBodycare  Category = "bodycare"
	CategoryHaircare  Category = "haircare"
	CategoryOther     Category = "other"
)

// Categories lists every valid product category in display order
var Categories = []Category{
	CategorySkincare,
	CategoryUVCare,
	CategoryBasemake,
	CategoryPointmake,
	CategoryBodycare,
	CategoryHaircare,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SkinType is the closed set of skin types a profile can declare
type SkinType string

const (
	SkinNormal      SkinType = "normal_skin"
	SkinDry         SkinType = "dry_skin"
	SkinOily        SkinType = "oily_skin"
	SkinCombination SkinType = "combination_skin"
	SkinSensitive   SkinType = "sensitive_skin"
)

// SkinTypes lists every valid skin type
var SkinTypes = []SkinType{
	SkinNormal,
	SkinDry,
	SkinOily,
	SkinCombination,
	SkinSensitive,
}

// Valid reports whether s is one of the known skin types
func (s SkinType) Valid() bool {
	for _, known := range SkinTypes {
		if s == known {
			return true
		}
	}
	return false
}

// AgeGroup is the closed set of age brackets a profile can declare
type AgeGroup string

const (
	AgeTeens    AgeGroup = "teens"
	AgeTwenties AgeGroup = "twenties"
	AgeThirties AgeGroup = "thirties"
	AgeForties  AgeGroup = "forties"
	AgeFifties  AgeGroup = "fifties"
	AgeSixties  AgeGroup = "sixties"
)

// AgeGroups lists every valid age bracket
var AgeGroups = []AgeGroup{
	AgeTeens,
	AgeTwenties,
	AgeThirties,
	AgeForties,
	AgeFifties,
	AgeSixties,
}

// Valid reports whether a is one of the known age brackets
func (a AgeGroup) Valid() bool {
	for _, known := range AgeGroups {
		if a == known {
			return true
		}
	}
	return false
}

// Gender is the closed set of gender answers a profile can declare
type Gender string

const (
	GenderMale     Gender = "male"
	GenderFemale   Gender = "female"
	GenderOther    Gender = "other"
	GenderNoAnswer Gender = "no"
)

// Genders lists every valid gender answer
var Genders = []Gender{
	GenderMale,
	GenderFemale,
	GenderOther,
	GenderNoAnswer,
}

// Valid reports whether g is one of the known gender answers
func (g Gender) Valid() bool {
	for _, known := range Genders {
		if g == known {
			return true
		}
	}
	return false
}
