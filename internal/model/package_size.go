package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type WeightUnit string

const (
	WeightKG WeightUnit = "KG"
	WeightG  WeightUnit = "G"
)

var gramsPerKG = decimal.NewFromInt(1000)

var ErrInvalidPackageSize = errors.New("invalid package size")

// PackageSize is the net weight of one finished unit, e.g. 25 KG.
type PackageSize struct {
	Weight decimal.Decimal `json:"weight" validate:"gt=0"`
	Unit   WeightUnit      `json:"unit" validate:"required,oneof=KG G"`
}

func NewPackageSize(weight decimal.Decimal, unit WeightUnit) (PackageSize, error) {
	ps := PackageSize{Weight: weight, Unit: unit}
	if err := ps.Validate(); err != nil {
		return PackageSize{}, err
	}
	return ps, nil
}

var packageLabelPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*(KG|G)\s*$`)

// ParsePackageSize accepts display labels such as "25KG" or "500 g".
func ParsePackageSize(label string) (PackageSize, error) {
	m := packageLabelPattern.FindStringSubmatch(strings.ToUpper(label))
	if m == nil {
		return PackageSize{}, fmt.Errorf("%w: %q", ErrInvalidPackageSize, label)
	}
	w, err := decimal.NewFromString(m[1])
	if err != nil {
		return PackageSize{}, fmt.Errorf("%w: %q", ErrInvalidPackageSize, label)
	}
	return NewPackageSize(w, WeightUnit(m[2]))
}

func (p PackageSize) Validate() error {
	if !p.Weight.IsPositive() {
		return fmt.Errorf("%w: weight must be greater than zero", ErrInvalidPackageSize)
	}
	if p.Unit != WeightKG && p.Unit != WeightG {
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidPackageSize, p.Unit)
	}
	return nil
}

// KG returns the weight normalized to kilograms.
func (p PackageSize) KG() decimal.Decimal {
	if p.Unit == WeightG {
		return p.Weight.Div(gramsPerKG)
	}
	return p.Weight
}

// Label renders the display form, e.g. "25KG".
func (p PackageSize) Label() string {
	return p.Weight.String() + string(p.Unit)
}

// TotalKG is the combined net weight of count units.
func (p PackageSize) TotalKG(count int) decimal.Decimal {
	return p.KG().Mul(decimal.NewFromInt(int64(count)))
}
