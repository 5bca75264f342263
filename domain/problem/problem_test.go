package problem

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRanges_JSONKeyOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   Operation
		want string
	}{
		{OperationAddition, `{"augend":{"min":1,"max":9},"addend":{"min":2,"max":8}}`},
		{OperationSubtraction, `{"minuend":{"min":1,"max":9},"subtrahend":{"min":2,"max":8}}`},
		{OperationMultiplication, `{"multiplicand":{"min":1,"max":9},"multiplier":{"min":2,"max":8}}`},
		{OperationDivision, `{"dividend_factor":{"min":1,"max":9},"divisor":{"min":2,"max":8}}`},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(NewRanges(tt.op, NewRange(1, 9), NewRange(2, 8)))
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var got Ranges
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if diff := cmp.Diff(NewRanges(tt.op, NewRange(1, 9), NewRange(2, 8)), got); diff != "" {
				t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRanges_UnmarshalRejectsWrongArity(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`{"augend":{"min":1,"max":9}}`,
		`{"a":{"min":1,"max":9},"b":{"min":1,"max":9},"c":{"min":1,"max":9}}`,
		`[1,2]`,
	}
	for _, in := range inputs {
		var r Ranges
		if err := json.Unmarshal([]byte(in), &r); err == nil {
			t.Errorf("Unmarshal(%s) error = nil, want error", in)
		}
	}
}

func TestSet_JSONLayout(t *testing.T) {
	t.Parallel()

	set, err := newTestGenerator().Generate(Request{
		Operation: OperationDivision,
		First:     NewRange(2, 3),
		Second:    NewRange(2, 2),
		Count:     2,
		Seed:      seedPtr(5),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	text := string(data)

	order := []string{`"operation"`, `"symbol"`, `"created_at"`, `"seed"`, `"count"`, `"ranges"`, `"problems"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		if idx < 0 {
			t.Fatalf("missing key %s in %s", key, text)
		}
		if idx < last {
			t.Errorf("key %s out of order in %s", key, text)
		}
		last = idx
	}
	if strings.Contains(text, `"description"`) {
		t.Errorf("empty description should be omitted: %s", text)
	}
	if !strings.Contains(text, `"created_at":"2025-03-14T09:26:53Z"`) {
		t.Errorf("created_at not RFC 3339: %s", text)
	}

	var decoded Set
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(set, &decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_Verify(t *testing.T) {
	t.Parallel()

	base := func(op Operation, problems ...Problem) *Set {
		return &Set{
			Metadata: Metadata{
				Operation: op,
				Symbol:    op.Symbol(),
				Count:     len(problems),
				Ranges:    NewRanges(op, NewRange(1, 10), NewRange(1, 10)),
			},
			Problems: problems,
		}
	}

	tests := []struct {
		name    string
		set     *Set
		wantErr bool
	}{
		{"valid addition", base(OperationAddition, Problem{A: 3, B: 4, Answer: 7}), false},
		{"wrong sum", base(OperationAddition, Problem{A: 3, B: 4, Answer: 8}), true},
		{"operand out of range", base(OperationAddition, Problem{A: 30, B: 4, Answer: 34}), true},
		{"swapped subtraction", base(OperationSubtraction, Problem{A: 9, B: 2, Answer: 7}), false},
		{"negative difference", base(OperationSubtraction, Problem{A: 2, B: 9, Answer: -7}), true},
		{"product", base(OperationMultiplication, Problem{A: 6, B: 7, Answer: 42}), false},
		{"exact division", base(OperationDivision, Problem{A: 42, B: 7, Answer: 6}), false},
		{"inexact division", base(OperationDivision, Problem{A: 43, B: 7, Answer: 6}), true},
		{"unknown operation", base("modulo", Problem{A: 1, B: 1, Answer: 0}), true},
		{
			name: "count mismatch",
			set: func() *Set {
				s := base(OperationAddition, Problem{A: 1, B: 1, Answer: 2})
				s.Metadata.Count = 3
				return s
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.set.Verify()
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.set.Metadata.Operation.IsValid() && !errors.Is(err, ErrInvariantViolated) {
				t.Errorf("Verify() error = %v, want ErrInvariantViolated", err)
			}
		})
	}
}

func TestProblem_VerifyDetectsOverflow(t *testing.T) {
	t.Parallel()

	wide := NewRange(math.MinInt, math.MaxInt)
	tests := []struct {
		name string
		op   Operation
		p    Problem
	}{
		{"wrapped product", OperationMultiplication, Problem{A: math.MaxInt / 2, B: 4, Answer: -4}},
		{"wrapped sum", OperationAddition, Problem{A: math.MaxInt, B: 1, Answer: math.MinInt}},
		{"wrapped difference", OperationSubtraction, Problem{A: math.MaxInt, B: -1, Answer: math.MinInt}},
		{"wrapped dividend", OperationDivision, Problem{A: -4, B: 4, Answer: math.MaxInt / 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.p.Verify(tt.op, wide, wide)
			if !errors.Is(err, ErrInvariantViolated) {
				t.Errorf("Verify() error = %v, want ErrInvariantViolated", err)
			}
		})
	}
}

func TestParseOperation(t *testing.T) {
	t.Parallel()

	for _, name := range OperationNames() {
		op, err := ParseOperation(name)
		if err != nil {
			t.Errorf("ParseOperation(%q) error = %v", name, err)
		}
		if op.Symbol() == "" {
			t.Errorf("%s has no symbol", op)
		}
	}

	if _, err := ParseOperation("exponent"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("ParseOperation(exponent) error = %v, want ErrInvalidOperation", err)
	}
}

func TestRange_Validate(t *testing.T) {
	t.Parallel()

	err := NewRange(5, 3).Validate("first")
	if err == nil {
		t.Fatal("Validate() error = nil, want error")
	}
	if got, want := err.Error(), "first-min: 5 > first-max 3"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err := NewRange(3, 3).Validate("first"); err != nil {
		t.Errorf("Validate() error = %v for single-value range", err)
	}
}
