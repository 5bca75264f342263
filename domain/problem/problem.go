package problem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Problem is a single generated exercise. The meaning of A, B and Answer
// depends on the operation; for division A is the dividend, B the divisor
// and Answer the quotient.
type Problem struct {
	A      int `json:"a"`
	B      int `json:"b"`
	Answer int `json:"answer"`
}

// String renders the problem with its answer, e.g. "7 + 5 = 12".
func (p Problem) String(op Operation) string {
	return fmt.Sprintf("%d %s %d = %d", p.A, op.Symbol(), p.B, p.Answer)
}

// Verify checks that the problem is consistent with the operation and
// was drawn from the given ranges.
func (p Problem) Verify(op Operation, first, second Range) error {
	switch op {
	case OperationAddition:
		if sum, ok := checkedAdd(p.A, p.B); !ok || p.Answer != sum {
			return fmt.Errorf("%w: %d + %d != %d", ErrInvariantViolated, p.A, p.B, p.Answer)
		}
		return checkOperands(p.A, p.B, first, second)
	case OperationSubtraction:
		if diff, ok := checkedSub(p.A, p.B); p.A < p.B || !ok || p.Answer != diff {
			return fmt.Errorf("%w: %d - %d != %d", ErrInvariantViolated, p.A, p.B, p.Answer)
		}
		// Operands may have been swapped during generation.
		if checkOperands(p.A, p.B, first, second) != nil && checkOperands(p.B, p.A, first, second) != nil {
			return fmt.Errorf("%w: operands %d, %d outside ranges %s, %s", ErrInvariantViolated, p.A, p.B, first, second)
		}
		return nil
	case OperationMultiplication:
		if product, ok := checkedMul(p.A, p.B); !ok || p.Answer != product {
			return fmt.Errorf("%w: %d × %d != %d", ErrInvariantViolated, p.A, p.B, p.Answer)
		}
		return checkOperands(p.A, p.B, first, second)
	case OperationDivision:
		if dividend, ok := checkedMul(p.B, p.Answer); !ok || p.A != dividend {
			return fmt.Errorf("%w: %d ÷ %d != %d", ErrInvariantViolated, p.A, p.B, p.Answer)
		}
		return checkOperands(p.Answer, p.B, first, second)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
}

func checkOperands(a, b int, first, second Range) error {
	if !first.Contains(a) {
		return fmt.Errorf("%w: %d outside %s", ErrInvariantViolated, a, first)
	}
	if !second.Contains(b) {
		return fmt.Errorf("%w: %d outside %s", ErrInvariantViolated, b, second)
	}
	return nil
}

// Ranges maps the two operand names of an operation to their ranges.
// It serializes as a JSON object whose keys keep first/second order.
type Ranges struct {
	FirstName  string
	First      Range
	SecondName string
	Second     Range
}

// NewRanges names the two ranges after the operation's operands.
func NewRanges(op Operation, first, second Range) Ranges {
	firstName, secondName := op.OperandNames()
	return Ranges{
		FirstName:  firstName,
		First:      first,
		SecondName: secondName,
		Second:     second,
	}
}

// MarshalJSON implements json.Marshaler.
func (r Ranges) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range []struct {
		name string
		rng  Range
	}{{r.FirstName, r.First}, {r.SecondName, r.Second}} {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry.rng)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The object must hold
// exactly two ranges; the first key names the first operand.
func (r *Ranges) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("ranges: expected object")
	}

	var names []string
	var values []Range
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return errors.New("ranges: expected key")
		}
		var rng Range
		if err := dec.Decode(&rng); err != nil {
			return fmt.Errorf("ranges: %s: %w", name, err)
		}
		names = append(names, name)
		values = append(values, rng)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if len(names) != 2 {
		return fmt.Errorf("ranges: expected 2 entries, got %d", len(names))
	}

	*r = Ranges{
		FirstName:  names[0],
		First:      values[0],
		SecondName: names[1],
		Second:     values[1],
	}
	return nil
}

// Metadata describes how a problem set was generated.
type Metadata struct {
	Operation   Operation `json:"operation"`
	Symbol      string    `json:"symbol"`
	CreatedAt   time.Time `json:"created_at"`
	Seed        int64     `json:"seed"`
	Count       int       `json:"count"`
	Ranges      Ranges    `json:"ranges"`
	Description string    `json:"description,omitempty"`
}

// Set is a generated problem set. It is never mutated after generation.
type Set struct {
	Metadata Metadata  `json:"metadata"`
	Problems []Problem `json:"problems"`
}

// Verify checks every problem against the set's operation and ranges.
func (s *Set) Verify() error {
	if !s.Metadata.Operation.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidOperation, s.Metadata.Operation)
	}

	var errs []error
	if len(s.Problems) != s.Metadata.Count {
		errs = append(errs, fmt.Errorf("%w: metadata count %d, found %d problems",
			ErrInvariantViolated, s.Metadata.Count, len(s.Problems)))
	}
	for i, p := range s.Problems {
		if err := p.Verify(s.Metadata.Operation, s.Metadata.Ranges.First, s.Metadata.Ranges.Second); err != nil {
			errs = append(errs, fmt.Errorf("problem %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}
