package vehicle

import "fmt"

// Condition is the sale condition of a vehicle.
type Condition string

const (
	ConditionNew  Condition = "NEW"
	ConditionUsed Condition = "USED"
)

// IsValid returns true if the condition is a recognized value.
func (c Condition) IsValid() bool {
	return c == ConditionNew || c == ConditionUsed
}

// String returns the string representation of the condition.
func (c Condition) String() string {
	return string(c)
}

// ParseCondition converts a string to a Condition, returning an error if invalid.
func ParseCondition(s string) (Condition, error) {
	c := Condition(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid vehicle condition: %q", s)
	}
	return c, nil
}
