package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID     uuid.UUID       `validate:"uuid_required"`
	Amount decimal.Decimal `validate:"gt=0"`
	Share  decimal.Decimal `validate:"gte=0,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	ok := sample{ID: uuid.New(), Amount: decimal.NewFromInt(1), Share: decimal.NewFromInt(100)}
	assert.Empty(t, ValidateStruct(&ok))

	bad := sample{Amount: decimal.Zero, Share: decimal.NewFromInt(101)}
	errs := ValidateStruct(&bad)
	require.Len(t, errs, 3)
	assert.Equal(t, "sample.ID", errs[0].FailedField)
	assert.Equal(t, "uuid_required", errs[0].Tag)
	assert.Equal(t, "gt", errs[1].Tag)
	assert.Equal(t, "lte", errs[2].Tag)
}

func TestValidateStruct_NonStruct(t *testing.T) {
	errs := ValidateStruct("not a struct")
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid", errs[0].Tag)
}
