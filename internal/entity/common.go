package entity

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"
)

type OrderFactor string

const (
	Ascending  OrderFactor = "ASC"
	Descending OrderFactor = "DESC"
)

func (of *OrderFactor) String() string {
	if of != nil {
		if *of == Ascending {
			return "ASC"
		}
		return "DESC"
	}
	return "ASC"
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError reports a rejected form field. Handlers map it to a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTruthy is the single source of truth for coercing text-encoded flags.
// Only "true" (any case) and "1" count as true; nil, empty and everything
// else is false.
func IsTruthy(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}

// TextBool is a boolean persisted as the literal text "true"/"false".
// The store schema keeps flags as VARCHAR, so coercion happens once on scan
// and serialization back to text happens once on write.
type TextBool bool

func (b *TextBool) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*b = false
	case bool:
		*b = TextBool(v)
	case []byte:
		*b = TextBool(IsTruthy(string(v)))
	case string:
		*b = TextBool(IsTruthy(v))
	default:
		return fmt.Errorf("can't scan %T into TextBool", value)
	}
	return nil
}

func (b TextBool) Value() (driver.Value, error) {
	if b {
		return "true", nil
	}
	return "false", nil
}

func (b TextBool) Bool() bool {
	return bool(b)
}
