package seed

import (
	"errors"

	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Demo is the catalog created by LayerMash.
type Demo struct {
	Maize   model.RawMaterial
	Soya    model.RawMaterial
	Formula model.Formula
	Product model.Product
	Bag     model.PackagingMaterial
}

// StockLevels are the hub quantities LayerMash tops stock up to.
type StockLevels struct {
	Maize decimal.Decimal
	Soya  decimal.Decimal
	Bags  decimal.Decimal
}

func DefaultStock() StockLevels {
	return StockLevels{
		Maize: decimal.NewFromInt(1000),
		Soya:  decimal.NewFromInt(500),
		Bags:  decimal.NewFromInt(100),
	}
}

// LayerMash creates the "Layer Mash" formula (60 maize + 40 soya per
// 100 kg), a 25KG product, a bag, and tops hub stock up to levels. Running
// it twice leaves the catalog unchanged.
func LayerMash(db *gorm.DB, ledger repository.StockLedger, levels StockLevels, actor string) (*Demo, error) {
	var demo Demo
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := firstOrCreate(tx, &demo.Maize, model.RawMaterial{Code: "RM-MAIZE"}, model.RawMaterial{
			Name: "Maize", Unit: "kg", UnitCost: decimal.NewFromInt(500),
		}); err != nil {
			return err
		}
		if err := firstOrCreate(tx, &demo.Soya, model.RawMaterial{Code: "RM-SOYA"}, model.RawMaterial{
			Name: "Soya Meal", Unit: "kg", UnitCost: decimal.NewFromInt(800),
		}); err != nil {
			return err
		}
		if err := firstOrCreate(tx, &demo.Bag, model.PackagingMaterial{Code: "PK-BAG25"}, model.PackagingMaterial{
			Name: "Woven bag 25kg", UnitCost: decimal.NewFromInt(200),
		}); err != nil {
			return err
		}
		if err := firstOrCreate(tx, &demo.Product, model.Product{SKU: "LM-25KG"}, model.Product{
			Name: "Layer Mash 25KG", Unit: "bag",
		}); err != nil {
			return err
		}

		if err := tx.Preload("Ingredients").Where("code = ?", "F-LAYER").First(&demo.Formula).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			demo.Formula = model.Formula{
				Code:        "F-LAYER",
				Name:        "Layer Mash",
				TargetYield: decimal.NewFromInt(100),
				YieldUnit:   "kg",
				Ingredients: []model.FormulaIngredient{
					{RawMaterialID: demo.Maize.ID, Quantity: decimal.NewFromInt(60), Position: 1},
					{RawMaterialID: demo.Soya.ID, Quantity: decimal.NewFromInt(40), Position: 2},
				},
			}
			demo.Formula.CreatedBy = actor
			if err := tx.Create(&demo.Formula).Error; err != nil {
				return err
			}
		}

		for ref, target := range map[model.MaterialRef]decimal.Decimal{
			model.RawMaterialRef(demo.Maize.ID):     levels.Maize,
			model.RawMaterialRef(demo.Soya.ID):      levels.Soya,
			model.PackagingMaterialRef(demo.Bag.ID): levels.Bags,
		} {
			if err := topUp(tx, ledger, ref, target, actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &demo, nil
}

func firstOrCreate(tx *gorm.DB, dest, where, attrs interface{}) error {
	return tx.Where(where).Attrs(attrs).FirstOrCreate(dest).Error
}

func topUp(tx *gorm.DB, ledger repository.StockLedger, ref model.MaterialRef, target decimal.Decimal, actor string) error {
	current, err := ledger.CurrentStock(tx, ref)
	if err != nil {
		return err
	}
	if current.GreaterThanOrEqual(target) {
		return nil
	}
	_, err = ledger.Credit(tx, ref, target.Sub(current), model.MovementMeta{Actor: actor, Note: "demo seed"})
	return err
}
