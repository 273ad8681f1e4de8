package event

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrMetricUnset is returned when a metering accessor is called on an
// envelope whose metric extension is null.
var ErrMetricUnset = errors.New("metric extension is not set")

// ExecutionUnitsDecimal parses the executionunits metric as an
// arbitrary-precision decimal for metering arithmetic.
func (e *Event) ExecutionUnitsDecimal() (decimal.Decimal, error) {
	return metricDecimal("executionunits", e.executionUnits)
}

// ElapsedTimeDecimal parses the elapsedtime metric as an
// arbitrary-precision decimal.
func (e *Event) ElapsedTimeDecimal() (decimal.Decimal, error) {
	return metricDecimal("elapsedtime", e.elapsedTime)
}

func metricDecimal(field string, value *string) (decimal.Decimal, error) {
	if value == nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, ErrMetricUnset)
	}
	d, err := decimal.NewFromString(*value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
