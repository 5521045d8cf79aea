package store

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// NumericToDecimal converts without going through float64. NULL, NaN and
// infinities map to nil.
func NumericToDecimal(value pgtype.Numeric) *decimal.Decimal {
	if !value.Valid || value.NaN || value.InfinityModifier != pgtype.Finite || value.Int == nil {
		return nil
	}
	out := decimal.NewFromBigInt(value.Int, value.Exp)
	return &out
}

func textPtr(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}
	out := value.String
	return &out
}
