package projection

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EmptyMarker is the display value for absent, null, or empty-string
// fields. Literal zero and false are real values and never collapse to
// the marker.
const EmptyMarker = "—"

// Format tags recognized on a FieldSpec.
const (
	FormatDate     = "date"
	FormatCurrency = "currency"
	FormatPhone    = "phone"
)

const (
	displayYes = "Yes"
	displayNo  = "No"
)

// dateLayout is the short numeric display form for dates.
const dateLayout = "1/2/2006"

// currencyPrinter applies en-US digit grouping to currency amounts.
var currencyPrinter = message.NewPrinter(language.AmericanEnglish) //nolint:gochecknoglobals // immutable formatter

// FormatValue renders a raw extracted value for display. ok=false marks an
// absent value. Formatting never fails: unparsable dates and currency
// amounts pass through in their original string form.
func FormatValue(raw any, ok bool, format string) string {
	if !ok || raw == nil {
		return EmptyMarker
	}

	if s, isString := raw.(string); isString && s == "" {
		return EmptyMarker
	}

	switch format {
	case FormatDate:
		return formatDate(raw)
	case FormatCurrency:
		return formatCurrency(raw)
	case FormatPhone:
		return formatPhone(raw)
	default:
		return naturalString(raw)
	}
}

// formatDate renders a calendar date in short numeric form. A bare
// YYYY-MM-DD is interpreted as local midnight, not UTC: parsing it as UTC
// shifts the display back a day for viewers west of Greenwich.
func formatDate(raw any) string {
	s, isString := raw.(string)
	if !isString {
		return naturalString(raw)
	}

	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t.Format(dateLayout)
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local().Format(dateLayout)
	}

	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t.Format(dateLayout)
	}

	return s
}

func formatCurrency(raw any) string {
	switch v := raw.(type) {
	case float64:
		return currencyPrinter.Sprintf("$%.2f", v)
	case int:
		return currencyPrinter.Sprintf("$%.2f", float64(v))
	case int64:
		return currencyPrinter.Sprintf("$%.2f", float64(v))
	case uint64:
		return currencyPrinter.Sprintf("$%.2f", float64(v))
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)

		amount, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return v
		}

		return currencyPrinter.Sprintf("$%.2f", amount)
	default:
		return naturalString(raw)
	}
}

// formatPhone renders ten-digit numbers as (NNN) NNN-NNNN and passes
// anything else through unchanged.
func formatPhone(raw any) string {
	s, isString := raw.(string)
	if !isString {
		return naturalString(raw)
	}

	var digits strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) != 10 {
		return s
	}

	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
}

// naturalString is the unformatted display form of a raw value. Booleans
// display as Yes/No rather than the literal true/false, and numeric zero
// displays as "0".
func naturalString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		if v {
			return displayYes
		}

		return displayNo
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
