package daterange

import (
	"strings"
	"time"

	"github.com/salesboard-dev/salesboard/internal/model"
)

// Field identifies a custom range input.
type Field string

const (
	FieldStart Field = "start"
	FieldEnd   Field = "end"
)

// Messages shown for custom range input errors.
const (
	MsgMissingStart = "Please enter start date."
	MsgMissingEnd   = "Please enter end date."
	MsgInvalidStart = "Invalid start date."
	MsgInvalidEnd   = "Invalid end date."
	MsgInvalidRange = "Invalid date range!"
)

// ValidationError is one problem with the custom range inputs. Fields lists
// every input the error marks.
type ValidationError struct {
	Fields  []Field
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Marks reports whether the error marks field f.
func (e ValidationError) Marks(f Field) bool {
	for _, got := range e.Fields {
		if got == f {
			return true
		}
	}
	return false
}

// ValidateCustom checks a user-entered range. A nil pointer is a missing
// input. Both missing inputs are reported together; an end before the start
// yields a single error marking both fields.
func ValidateCustom(start, end *time.Time) (model.DateRange, []ValidationError) {
	var errs []ValidationError
	if start == nil {
		errs = append(errs, ValidationError{Fields: []Field{FieldStart}, Message: MsgMissingStart})
	}
	if end == nil {
		errs = append(errs, ValidationError{Fields: []Field{FieldEnd}, Message: MsgMissingEnd})
	}
	if len(errs) > 0 {
		return model.DateRange{}, errs
	}

	r := model.DateRange{Start: *start, End: *end}
	if !r.Valid() {
		return model.DateRange{}, []ValidationError{{
			Fields:  []Field{FieldStart, FieldEnd},
			Message: MsgInvalidRange,
		}}
	}
	return r, nil
}

// ParseCustom parses YYYY-MM-DD inputs in loc and validates them. Blank text
// counts as a missing input.
func ParseCustom(startText, endText string, loc *time.Location) (model.DateRange, []ValidationError) {
	start, startErr := parseInput(startText, loc, FieldStart, MsgInvalidStart)
	end, endErr := parseInput(endText, loc, FieldEnd, MsgInvalidEnd)
	if startErr == nil && endErr == nil {
		return ValidateCustom(start, end)
	}

	var errs []ValidationError
	switch {
	case startErr != nil:
		errs = append(errs, *startErr)
	case start == nil:
		errs = append(errs, ValidationError{Fields: []Field{FieldStart}, Message: MsgMissingStart})
	}
	switch {
	case endErr != nil:
		errs = append(errs, *endErr)
	case end == nil:
		errs = append(errs, ValidationError{Fields: []Field{FieldEnd}, Message: MsgMissingEnd})
	}
	return model.DateRange{}, errs
}

func parseInput(text string, loc *time.Location, f Field, msg string) (*time.Time, *ValidationError) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(ISODate, text, loc)
	if err != nil {
		return nil, &ValidationError{Fields: []Field{f}, Message: msg}
	}
	return &t, nil
}

// Messages returns the message of each error, in order.
func Messages(errs []ValidationError) []string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}
