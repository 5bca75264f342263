// Package problem provides the domain model for arithmetic problem sets.
package problem

import "fmt"

// Operation identifies the arithmetic operation of a problem set.
type Operation string

// Supported operations.
const (
	OperationAddition       Operation = "addition"
	OperationSubtraction    Operation = "subtraction"
	OperationMultiplication Operation = "multiplication"
	OperationDivision       Operation = "division"
)

// operationInfo holds the display data of an operation.
type operationInfo struct {
	symbol string
	first  string
	second string
}

var operations = map[Operation]operationInfo{
	OperationAddition:       {symbol: "+", first: "augend", second: "addend"},
	OperationSubtraction:    {symbol: "-", first: "minuend", second: "subtrahend"},
	OperationMultiplication: {symbol: "×", first: "multiplicand", second: "multiplier"},
	// The first division range supplies the quotient.
	OperationDivision: {symbol: "÷", first: "dividend_factor", second: "divisor"},
}

// ParseOperation converts a name into an Operation.
func ParseOperation(name string) (Operation, error) {
	op := Operation(name)
	if !op.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperation, name)
	}
	return op, nil
}

// IsValid returns true if the operation is one of the supported kinds.
func (o Operation) IsValid() bool {
	_, ok := operations[o]
	return ok
}

// Symbol returns the display symbol, e.g. "+" or "÷".
func (o Operation) Symbol() string {
	return operations[o].symbol
}

// OperandNames returns the semantic names of the first and second operand.
func (o Operation) OperandNames() (first, second string) {
	info := operations[o]
	return info.first, info.second
}

// String returns the string representation of the operation.
func (o Operation) String() string {
	return string(o)
}

// AllOperations returns the supported operations in canonical order.
func AllOperations() []Operation {
	return []Operation{
		OperationAddition,
		OperationSubtraction,
		OperationMultiplication,
		OperationDivision,
	}
}

// OperationNames returns the names of all supported operations.
func OperationNames() []string {
	ops := AllOperations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return names
}
