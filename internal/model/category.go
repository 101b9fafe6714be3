package model

// Category is the fixed product classification shown on the dashboard.
type Category string

const (
	CategoryFood        Category = "food"
	CategoryBeverage    Category = "beverage"
	CategoryHousehold   Category = "household"
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryOther       Category = "other"
)

var Categories = []Category{
	CategoryFood,
	CategoryBeverage,
	CategoryHousehold,
	CategoryElectronics,
	CategoryClothing,
	CategoryOther,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// Unit is the counting unit a product is stocked in.
type Unit string

const (
	UnitEach Unit = "ea"
	UnitBox  Unit = "box"
	UnitKg   Unit = "kg"
	UnitL    Unit = "L"
	UnitSet  Unit = "set"
)

var Units = []Unit{UnitEach, UnitBox, UnitKg, UnitL, UnitSet}

func (u Unit) IsValid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

func UnitNames() []string {
	names := make([]string, len(Units))
	for i, u := range Units {
		names[i] = string(u)
	}
	return names
}
