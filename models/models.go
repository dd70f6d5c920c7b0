package models

// All lists every table for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&ModifierGroup{},
		&Modifier{},
		&ProductModifierGroup{},
		&StoreSetting{},
		&Customer{},
		&Order{},
		&OrderItem{},
		&OrderItemModifier{},
		&Payment{},
		&StatusLog{},
		&CartRecord{},
	}
}
