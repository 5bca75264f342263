package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// BatchID adds a batch run ID field.
func BatchID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("batch_id", id)
	}
}

// Batch adds a batch name field.
func Batch(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("batch", name)
	}
}

// Page adds a page number field.
func Page(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("page", n)
	}
}

// Tool adds an external tool field.
func Tool(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// Strategy adds a merge strategy field.
func Strategy(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("strategy", name)
	}
}

// Status adds a lifecycle status field.
func Status(s string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("status", s)
	}
}

// Operation adds an arithmetic operation field.
func Operation(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", op)
	}
}

// Seed adds a random seed field.
func Seed(seed int64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("seed", seed)
	}
}

// Count adds a count field.
func Count(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("count", n)
	}
}

// Path adds a file path field.
func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
