package problem

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func seedPtr(v int64) *int64 { return &v }

func newStream(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newTestGenerator() *Generator {
	return NewGenerator(
		WithClock(func() time.Time { return fixedNow }),
		WithSeedSource(func() (int64, error) { return 777, nil }),
	)
}

func TestGenerator_Deterministic(t *testing.T) {
	t.Parallel()

	for _, op := range AllOperations() {
		t.Run(op.String(), func(t *testing.T) {
			t.Parallel()

			req := Request{
				Operation: op,
				First:     NewRange(1, 50),
				Second:    NewRange(1, 20),
				Count:     40,
				Seed:      seedPtr(12345),
			}

			first, err := newTestGenerator().Generate(req)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			second, err := newTestGenerator().Generate(req)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("Generate() not deterministic (-first +second):\n%s", diff)
			}
		})
	}
}

func TestGenerator_AdditionSeed42(t *testing.T) {
	t.Parallel()

	req := Request{
		Operation: OperationAddition,
		First:     NewRange(1, 9),
		Second:    NewRange(1, 9),
		Count:     5,
		Seed:      seedPtr(42),
	}

	set, err := newTestGenerator().Generate(req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Problems) != 5 {
		t.Fatalf("len(Problems) = %d, want 5", len(set.Problems))
	}

	// Replay the stream by hand: first draw, then second draw, per problem.
	rng := newStream(42)
	for i, p := range set.Problems {
		a := rng.Intn(9) + 1
		b := rng.Intn(9) + 1
		want := Problem{A: a, B: b, Answer: a + b}
		if p != want {
			t.Errorf("Problems[%d] = %+v, want %+v", i, p, want)
		}
	}

	again, err := newTestGenerator().Generate(req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if diff := cmp.Diff(set.Problems, again.Problems); diff != "" {
		t.Errorf("seed 42 not reproducible (-want +got):\n%s", diff)
	}
}

func TestGenerator_Invariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		op     Operation
		first  Range
		second Range
		check  func(p Problem) bool
	}{
		{
			name:   "addition",
			op:     OperationAddition,
			first:  NewRange(0, 100),
			second: NewRange(0, 100),
			check:  func(p Problem) bool { return p.Answer == p.A+p.B },
		},
		{
			name:   "subtraction",
			op:     OperationSubtraction,
			first:  NewRange(1, 10),
			second: NewRange(5, 30),
			check:  func(p Problem) bool { return p.A >= p.B && p.Answer >= 0 && p.Answer == p.A-p.B },
		},
		{
			name:   "multiplication",
			op:     OperationMultiplication,
			first:  NewRange(1, 12),
			second: NewRange(1, 12),
			check:  func(p Problem) bool { return p.Answer == p.A*p.B },
		},
		{
			name:   "division",
			op:     OperationDivision,
			first:  NewRange(2, 12),
			second: NewRange(2, 9),
			check:  func(p Problem) bool { return p.B*p.Answer == p.A },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set, err := NewGenerator().Generate(Request{
				Operation: tt.op,
				First:     tt.first,
				Second:    tt.second,
				Count:     200,
			})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			for i, p := range set.Problems {
				if !tt.check(p) {
					t.Errorf("Problems[%d] = %+v violates %s invariant", i, p, tt.op)
				}
			}
			if err := set.Verify(); err != nil {
				t.Errorf("Verify() error = %v", err)
			}
		})
	}
}

func TestGenerator_DivisionExample(t *testing.T) {
	t.Parallel()

	set, err := newTestGenerator().Generate(Request{
		Operation: OperationDivision,
		First:     NewRange(2, 12),
		Second:    NewRange(2, 9),
		Count:     20,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i, p := range set.Problems {
		if p.B*p.Answer != p.A {
			t.Errorf("Problems[%d]: %d × %d != %d", i, p.B, p.Answer, p.A)
		}
		if p.Answer < 2 || p.Answer > 12 {
			t.Errorf("Problems[%d] quotient %d outside [2,12]", i, p.Answer)
		}
		if p.B < 2 || p.B > 9 {
			t.Errorf("Problems[%d] divisor %d outside [2,9]", i, p.B)
		}
	}
}

func TestGenerator_Metadata(t *testing.T) {
	t.Parallel()

	set, err := newTestGenerator().Generate(Request{
		Operation:   OperationMultiplication,
		First:       NewRange(2, 5),
		Second:      NewRange(3, 4),
		Count:       3,
		Description: "times tables",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := Metadata{
		Operation:   OperationMultiplication,
		Symbol:      "×",
		CreatedAt:   fixedNow,
		Seed:        777,
		Count:       3,
		Ranges:      Ranges{FirstName: "multiplicand", First: NewRange(2, 5), SecondName: "multiplier", Second: NewRange(3, 4)},
		Description: "times tables",
	}
	if diff := cmp.Diff(want, set.Metadata); diff != "" {
		t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerator_ExplicitZeroSeed(t *testing.T) {
	t.Parallel()

	set, err := newTestGenerator().Generate(Request{
		Operation: OperationAddition,
		First:     NewRange(1, 9),
		Second:    NewRange(1, 9),
		Count:     1,
		Seed:      seedPtr(0),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if set.Metadata.Seed != 0 {
		t.Errorf("Seed = %d, want 0", set.Metadata.Seed)
	}
}

func TestGenerator_InvalidOperation(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator().Generate(Request{
		Operation: "modulo",
		First:     NewRange(1, 2),
		Second:    NewRange(1, 2),
		Count:     1,
	})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Generate() error = %v, want ErrInvalidOperation", err)
	}
}

func TestGenerator_SubtractionSwapKeepsDraws(t *testing.T) {
	t.Parallel()

	// Second range strictly above the first forces a swap on every problem.
	set, err := newTestGenerator().Generate(Request{
		Operation: OperationSubtraction,
		First:     NewRange(1, 5),
		Second:    NewRange(10, 15),
		Count:     25,
		Seed:      seedPtr(9),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	rng := newStream(9)
	for i, p := range set.Problems {
		a := rng.Intn(5) + 1
		b := rng.Intn(6) + 10
		want := Problem{A: b, B: a, Answer: b - a}
		if p != want {
			t.Errorf("Problems[%d] = %+v, want %+v", i, p, want)
		}
	}
}

func TestGenerator_WideRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		first  Range
		second Range
	}{
		{"zero to max", NewRange(0, math.MaxInt), NewRange(0, 0)},
		{"min to max", NewRange(math.MinInt, math.MaxInt), NewRange(0, 0)},
		{"negative half", NewRange(math.MinInt, -1), NewRange(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set, err := newTestGenerator().Generate(Request{
				Operation: OperationAddition,
				First:     tt.first,
				Second:    tt.second,
				Count:     200,
				Seed:      seedPtr(3),
			})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if err := set.Verify(); err != nil {
				t.Errorf("Verify() error = %v", err)
			}
		})
	}
}

func TestGenerator_OverflowingResult(t *testing.T) {
	t.Parallel()

	_, err := newTestGenerator().Generate(Request{
		Operation: OperationMultiplication,
		First:     NewRange(math.MaxInt/2, math.MaxInt/2),
		Second:    NewRange(4, 4),
		Count:     1,
		Seed:      seedPtr(1),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Generate() error = %v, want ErrInvalidRange", err)
	}
}

func TestGenerator_InvertedRange(t *testing.T) {
	t.Parallel()

	_, err := newTestGenerator().Generate(Request{
		Operation: OperationAddition,
		First:     NewRange(9, 1),
		Second:    NewRange(1, 9),
		Count:     1,
		Seed:      seedPtr(1),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Generate() error = %v, want ErrInvalidRange", err)
	}
}

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     Request
		wantErr error
		field   string
	}{
		{
			name:    "valid",
			req:     Request{Operation: OperationAddition, First: NewRange(1, 9), Second: NewRange(1, 9), Count: 5},
			wantErr: nil,
		},
		{
			name:    "inverted first range",
			req:     Request{Operation: OperationAddition, First: NewRange(5, 3), Second: NewRange(1, 9), Count: 5},
			wantErr: ErrInvalidRange,
			field:   "first-min",
		},
		{
			name:    "inverted second range",
			req:     Request{Operation: OperationAddition, First: NewRange(1, 9), Second: NewRange(9, 1), Count: 5},
			wantErr: ErrInvalidRange,
			field:   "second-min",
		},
		{
			name:    "zero count",
			req:     Request{Operation: OperationAddition, First: NewRange(1, 9), Second: NewRange(1, 9), Count: 0},
			wantErr: ErrInvalidCount,
			field:   "count",
		},
		{
			name:    "unknown operation",
			req:     Request{Operation: "power", First: NewRange(1, 9), Second: NewRange(1, 9), Count: 5},
			wantErr: ErrInvalidOperation,
			field:   "operation",
		},
		{
			name:    "zero divisor",
			req:     Request{Operation: OperationDivision, First: NewRange(1, 9), Second: NewRange(0, 9), Count: 5},
			wantErr: ErrInvalidRange,
			field:   "second-min",
		},
		{
			name:    "zero second operand for multiplication",
			req:     Request{Operation: OperationMultiplication, First: NewRange(1, 9), Second: NewRange(0, 9), Count: 5},
			wantErr: nil,
		},
		{
			name:    "product overflows",
			req:     Request{Operation: OperationMultiplication, First: NewRange(math.MaxInt/2, math.MaxInt/2), Second: NewRange(4, 4), Count: 1},
			wantErr: ErrInvalidRange,
			field:   "ranges",
		},
		{
			name:    "dividend overflows",
			req:     Request{Operation: OperationDivision, First: NewRange(1, math.MaxInt), Second: NewRange(1, 2), Count: 1},
			wantErr: ErrInvalidRange,
			field:   "ranges",
		},
		{
			name:    "sum overflows",
			req:     Request{Operation: OperationAddition, First: NewRange(0, math.MaxInt), Second: NewRange(0, 1), Count: 1},
			wantErr: ErrInvalidRange,
			field:   "ranges",
		},
		{
			name:    "difference overflows",
			req:     Request{Operation: OperationSubtraction, First: NewRange(math.MinInt, 0), Second: NewRange(1, 1), Count: 1},
			wantErr: ErrInvalidRange,
			field:   "ranges",
		},
		{
			name:    "full width range without overflow",
			req:     Request{Operation: OperationAddition, First: NewRange(0, math.MaxInt), Second: NewRange(0, 0), Count: 1},
			wantErr: nil,
		},
		{
			name:    "single value ranges",
			req:     Request{Operation: OperationDivision, First: NewRange(3, 3), Second: NewRange(7, 7), Count: 1},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %T, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestCryptoSeed_Bounds(t *testing.T) {
	t.Parallel()

	for range 100 {
		seed, err := CryptoSeed()
		if err != nil {
			t.Fatalf("CryptoSeed() error = %v", err)
		}
		if seed < 1 || seed > MaxAutoSeed {
			t.Fatalf("CryptoSeed() = %d, want [1, %d]", seed, MaxAutoSeed)
		}
	}
}
