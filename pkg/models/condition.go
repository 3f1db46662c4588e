package models

// Operator is a comparison operator used in trigger conditions.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorIn          Operator = "in"
	OperatorNotIn       Operator = "not_in"
)

// Operators lists every known comparison operator.
var Operators = []Operator{
	OperatorEquals,
	OperatorNotEquals,
	OperatorContains,
	OperatorGreaterThan,
	OperatorLessThan,
	OperatorIn,
	OperatorNotIn,
}

// IsValid reports whether o is a known operator.
func (o Operator) IsValid() bool {
	for _, known := range Operators {
		if o == known {
			return true
		}
	}

	return false
}

// Condition is a single field/operator/value test against a trigger context.
// Field is a dot-path into the context (e.g. "facture.daysOverdue").
type Condition struct {
	Field    string   `json:"field"    validate:"required"`
	Operator Operator `json:"operator" validate:"required"`
	Value    any      `json:"value"`
}
