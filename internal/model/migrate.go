package model

// All returns every table owned by the production engine, in dependency
// order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&RawMaterial{},
		&PackagingMaterial{},
		&Product{},
		&HubStock{},
		&StockMovement{},
		&Formula{},
		&FormulaIngredient{},
		&SequenceCounter{},
		&Batch{},
		&BatchMaterialLine{},
		&BatchProductLine{},
		&FinishedGoodUnit{},
	}
}
