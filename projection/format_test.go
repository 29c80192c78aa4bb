package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue_AbsentAndEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EmptyMarker, FormatValue(nil, false, ""))
	assert.Equal(t, EmptyMarker, FormatValue(nil, true, ""))
	assert.Equal(t, EmptyMarker, FormatValue("", true, ""))
	assert.Equal(t, EmptyMarker, FormatValue("", true, FormatDate))
}

func TestFormatValue_ZeroIsNotEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", FormatValue(float64(0), true, ""))
	assert.Equal(t, "0", FormatValue(0, true, ""))
}

func TestFormatValue_Booleans(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Yes", FormatValue(true, true, ""))
	assert.Equal(t, "No", FormatValue(false, true, ""))
}

func TestFormatValue_Date(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  any
		want string
	}{
		// A bare date is local midnight; the display must not shift a
		// day for viewers west of UTC.
		{name: "bare date", raw: "2024-07-09", want: "7/9/2024"},
		{name: "bare date single digits", raw: "2023-01-02", want: "1/2/2023"},
		{name: "timestamp without zone", raw: "2024-07-09T14:30:00", want: "7/9/2024"},
		{name: "unparsable passes through", raw: "soon", want: "soon"},
		{name: "non-string passes through naturally", raw: 20240709.0, want: "20240709"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatValue(tt.raw, true, FormatDate))
		})
	}
}

func TestFormatValue_Currency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{name: "float", raw: 980.5, want: "$980.50"},
		{name: "float with grouping", raw: 1234.5, want: "$1,234.50"},
		{name: "integer", raw: 45, want: "$45.00"},
		{name: "numeric string", raw: "12.5", want: "$12.50"},
		{name: "dollar string", raw: "$3,200", want: "$3,200.00"},
		{name: "unparsable passes through", raw: "waived", want: "waived"},
		{name: "zero", raw: float64(0), want: "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatValue(tt.raw, true, FormatCurrency))
		})
	}
}

func TestFormatValue_Phone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{name: "ten digits", raw: "5035551234", want: "(503) 555-1234"},
		{name: "formatted input", raw: "503-555-1234", want: "(503) 555-1234"},
		{name: "with punctuation", raw: "(503) 555.1234", want: "(503) 555-1234"},
		{name: "eleven digits pass through", raw: "15035551234", want: "15035551234"},
		{name: "short passes through", raw: "x1234", want: "x1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, FormatValue(tt.raw, true, FormatPhone))
		})
	}
}

func TestFormatValue_NaturalStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Dana", FormatValue("Dana", true, ""))
	assert.Equal(t, "3.7", FormatValue(3.7, true, ""))
	assert.Equal(t, "42", FormatValue(float64(42), true, ""))
	assert.Equal(t, "7", FormatValue(int64(7), true, ""))
}

func TestFormatValue_UnknownFormatFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Dana", FormatValue("Dana", true, "sparkle"))
}
