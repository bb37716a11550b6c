package aggregation

import (
	"github.com/shopspring/decimal"
)

// Aggregator defines the reduce semantics of an aggregation operator.
// To add a new operator: implement this interface and register it in Operators.
type Aggregator interface {
	// Initial returns the aggregate value after the first value in a bucket.
	// count → 1; sum/min/max/avg → the incoming value itself.
	Initial(incoming decimal.Decimal) decimal.Decimal

	// Apply folds an incoming value into an existing aggregate.
	Apply(current, incoming decimal.Decimal) decimal.Decimal
}

// Finisher is implemented by operators whose accumulator differs from the
// reported value. avg accumulates a sum and divides by the count at the end.
type Finisher interface {
	Finish(acc decimal.Decimal, count int64) decimal.Decimal
}

// Operators is the registry of all supported aggregation operators.
var Operators = map[string]Aggregator{
	OpCount: countAgg{},
	OpSum:   sumAgg{},
	OpMin:   minAgg{},
	OpMax:   maxAgg{},
	OpAvg:   avgAgg{},
}

// ValidOperator reports whether op is a registered aggregation operator.
func ValidOperator(op string) bool {
	_, ok := Operators[op]
	return ok
}

// Reduce folds values with the named operator. ok is false for an empty input
// or an unknown operator; callers render that as a null measure value.
func Reduce(op string, values []decimal.Decimal) (decimal.Decimal, bool) {
	agg, found := Operators[op]
	if !found || len(values) == 0 {
		return decimal.Zero, false
	}
	acc := agg.Initial(values[0])
	for _, v := range values[1:] {
		acc = agg.Apply(acc, v)
	}
	if f, isFinisher := agg.(Finisher); isFinisher {
		acc = f.Finish(acc, int64(len(values)))
	}
	return acc, true
}

// countAgg increments by 1 per value. The incoming value is ignored.
type countAgg struct{}

func (countAgg) Initial(_ decimal.Decimal) decimal.Decimal    { return decimal.NewFromInt(1) }
func (countAgg) Apply(cur, _ decimal.Decimal) decimal.Decimal { return cur.Add(decimal.NewFromInt(1)) }

// sumAgg accumulates the sum of incoming values.
type sumAgg struct{}

func (sumAgg) Initial(v decimal.Decimal) decimal.Decimal      { return v }
func (sumAgg) Apply(cur, inc decimal.Decimal) decimal.Decimal { return cur.Add(inc) }

// minAgg tracks the minimum value seen.
type minAgg struct{}

func (minAgg) Initial(v decimal.Decimal) decimal.Decimal { return v }
func (minAgg) Apply(cur, inc decimal.Decimal) decimal.Decimal {
	if inc.LessThan(cur) {
		return inc
	}
	return cur
}

// maxAgg tracks the maximum value seen.
type maxAgg struct{}

func (maxAgg) Initial(v decimal.Decimal) decimal.Decimal { return v }
func (maxAgg) Apply(cur, inc decimal.Decimal) decimal.Decimal {
	if inc.GreaterThan(cur) {
		return inc
	}
	return cur
}

// avgAgg sums like sumAgg and divides on Finish.
type avgAgg struct{ sumAgg }

func (avgAgg) Finish(acc decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return acc.DivRound(decimal.NewFromInt(count), avgPrecision)
}
