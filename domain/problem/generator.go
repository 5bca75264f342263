package problem

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
	"time"
)

// MaxAutoSeed bounds seeds chosen when the caller does not supply one.
const MaxAutoSeed = 1_000_000

// Request describes a problem set to generate. A nil Seed picks one in
// [1, MaxAutoSeed]; an explicit zero is honoured.
type Request struct {
	Operation   Operation
	First       Range
	Second      Range
	Count       int
	Seed        *int64
	Description string
}

// Validate checks the request before generation.
func (r Request) Validate() error {
	var errs ValidationErrors

	if !r.Operation.IsValid() {
		errs = append(errs, &ValidationError{
			Field:   "operation",
			Message: fmt.Sprintf("unsupported operation %q", r.Operation),
			Err:     ErrInvalidOperation,
		})
	}
	if err := r.First.Validate("first"); err != nil {
		errs = append(errs, err.(*ValidationError))
	}
	if err := r.Second.Validate("second"); err != nil {
		errs = append(errs, err.(*ValidationError))
	} else if r.Operation == OperationDivision && r.Second.Min < 1 {
		errs = append(errs, &ValidationError{
			Field:   "second-min",
			Message: fmt.Sprintf("divisor must be at least 1, got %d", r.Second.Min),
			Err:     ErrInvalidRange,
		})
	}
	if !errs.HasErrors() && !fitsInt(r.Operation, r.First, r.Second) {
		errs = append(errs, &ValidationError{
			Field:   "ranges",
			Message: fmt.Sprintf("%s of %s and %s overflows int", r.Operation, r.First, r.Second),
			Err:     ErrInvalidRange,
		})
	}
	if r.Count < 1 {
		errs = append(errs, &ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("must be at least 1, got %d", r.Count),
			Err:     ErrInvalidCount,
		})
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// SeedSource picks a seed when the request does not carry one.
type SeedSource func() (int64, error)

// Generator builds problem sets from a single seeded random stream.
type Generator struct {
	now  func() time.Time
	seed SeedSource
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock sets the clock used for the creation timestamp.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// WithSeedSource sets the source of automatic seeds.
func WithSeedSource(src SeedSource) GeneratorOption {
	return func(g *Generator) {
		g.seed = src
	}
}

// NewGenerator creates a generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		now:  time.Now,
		seed: CryptoSeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a problem set. Only inverted ranges and overflowing
// results are rejected here; callers run Request.Validate at the boundary.
func (g *Generator) Generate(req Request) (*Set, error) {
	if !req.Operation.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, req.Operation)
	}
	if req.First.Min > req.First.Max || req.Second.Min > req.Second.Max {
		return nil, fmt.Errorf("%w: %s, %s", ErrInvalidRange, req.First, req.Second)
	}

	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		s, err := g.seed()
		if err != nil {
			return nil, fmt.Errorf("choose seed: %w", err)
		}
		seed = s
	}

	rng := mrand.New(mrand.NewSource(seed))

	problems := make([]Problem, 0, max(req.Count, 0))
	for range req.Count {
		a := drawIn(rng, req.First)
		b := drawIn(rng, req.Second)
		p, ok := build(req.Operation, a, b)
		if !ok {
			return nil, fmt.Errorf("%w: %s of %d and %d overflows", ErrInvalidRange, req.Operation, a, b)
		}
		problems = append(problems, p)
	}

	return &Set{
		Metadata: Metadata{
			Operation:   req.Operation,
			Symbol:      req.Operation.Symbol(),
			CreatedAt:   g.now().UTC().Truncate(time.Second),
			Seed:        seed,
			Count:       req.Count,
			Ranges:      NewRanges(req.Operation, req.First, req.Second),
			Description: req.Description,
		},
		Problems: problems,
	}, nil
}

// build turns the two drawn values into a problem. For division the first
// value is the quotient and the dividend is derived from it. It returns
// false if the result does not fit in an int.
func build(op Operation, a, b int) (Problem, bool) {
	v, ok := outcome(op, a, b)
	if !ok {
		return Problem{}, false
	}
	switch op {
	case OperationSubtraction:
		return Problem{A: max(a, b), B: min(a, b), Answer: v}, true
	case OperationDivision:
		return Problem{A: v, B: b, Answer: a}, true
	default:
		return Problem{A: a, B: b, Answer: v}, true
	}
}

// CryptoSeed draws a seed uniformly from [1, MaxAutoSeed].
func CryptoSeed() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])%MaxAutoSeed) + 1, nil
}
