//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package frame

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Int64Cell coerces a non-null cell to int64.
func Int64Cell(column string, v any) (int64, error) {
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, &TypeCoercionError{Column: column, Value: v, Err: err}
	}
	return n, nil
}

// StringCell coerces a non-null cell to string.
func StringCell(column string, v any) (string, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", &TypeCoercionError{Column: column, Value: v, Err: err}
	}
	return s, nil
}

// BoolCell coerces a non-null cell to bool.
func BoolCell(column string, v any) (bool, error) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, &TypeCoercionError{Column: column, Value: v, Err: err}
	}
	return b, nil
}

// TimeCell coerces a non-null cell to time.Time.
func TimeCell(column string, v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}, &TypeCoercionError{Column: column, Value: v, Err: err}
	}
	return t, nil
}

// DurationCell coerces a non-null cell to a time.Duration (time of day).
func DurationCell(column string, v any) (time.Duration, error) {
	if d, ok := v.(time.Duration); ok {
		return d, nil
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return 0, &TypeCoercionError{Column: column, Value: v, Err: err}
	}
	return d, nil
}

// DecimalCell coerces a non-null cell to a decimal.
func DecimalCell(column string, v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Decimal{}, &TypeCoercionError{Column: column, Value: v, Err: err}
		}
		return d, nil
	default:
		return decimal.Decimal{}, &TypeCoercionError{
			Column: column, Value: v, Err: fmt.Errorf("unsupported type %T", v),
		}
	}
}
