package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

func TestValidateCustom_BothMissing(t *testing.T) {
	_, errs := ValidateCustom(nil, nil)
	require.Len(t, errs, 2)
	assert.Equal(t, []string{MsgMissingStart, MsgMissingEnd}, Messages(errs))
	assert.True(t, errs[0].Marks(FieldStart))
	assert.True(t, errs[1].Marks(FieldEnd))
}

func TestValidateCustom_OneMissing(t *testing.T) {
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, errs := ValidateCustom(ptr(day), nil)
	assert.Equal(t, []string{MsgMissingEnd}, Messages(errs))

	_, errs = ValidateCustom(nil, ptr(day))
	assert.Equal(t, []string{MsgMissingStart}, Messages(errs))
}

func TestValidateCustom_StartAfterEnd(t *testing.T) {
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	_, errs := ValidateCustom(ptr(start), ptr(end))
	require.Len(t, errs, 1)
	assert.Equal(t, MsgInvalidRange, errs[0].Error())
	assert.True(t, errs[0].Marks(FieldStart))
	assert.True(t, errs[0].Marks(FieldEnd))
}

func TestValidateCustom_OK(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	r, errs := ValidateCustom(ptr(start), ptr(end))
	assert.Empty(t, errs)
	assert.Equal(t, start, r.Start)
	assert.Equal(t, end, r.End)

	// A single-day range is valid.
	_, errs = ValidateCustom(ptr(start), ptr(start))
	assert.Empty(t, errs)
}

func TestParseCustom(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantMsgs  []string
		wantStart string
	}{
		{"valid", "2026-10-01", "2026-10-05", nil, "2026-10-01"},
		{"both blank", "", "  ", []string{MsgMissingStart, MsgMissingEnd}, ""},
		{"reversed", "2026-10-05", "2026-10-01", []string{MsgInvalidRange}, ""},
		{"bad start", "10/01/2026", "2026-10-05", []string{MsgInvalidStart}, ""},
		{"bad start, blank end", "nope", "", []string{MsgInvalidStart, MsgMissingEnd}, ""},
		{"blank start, bad end", "", "nope", []string{MsgMissingStart, MsgInvalidEnd}, ""},
	}
	for _, tt := range tests {
		r, errs := ParseCustom(tt.start, tt.end, time.UTC)
		if tt.wantMsgs == nil {
			assert.Empty(t, errs, tt.name)
			assert.Equal(t, tt.wantStart, r.Start.Format(ISODate), tt.name)
			continue
		}
		assert.Equal(t, tt.wantMsgs, Messages(errs), tt.name)
	}
}
