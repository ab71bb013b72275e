package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/entrypoints/mcp-pdf-reader/internal/common"
)

// ordinalSuffix matches the day ordinal in dates like "9th Oct 2024".
// Only the suffix attached to a digit run is stripped; month names are
// left alone.
var ordinalSuffix = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)

// ConvertDate normalizes a human date like "9th Oct 2024" to
// "2024/10/09". A cleaned string that does not match the
// day/abbreviated-month/year shape is a loud failure: silently
// misparsing a date would corrupt chronological ordering downstream.
func ConvertDate(s string) (string, error) {
	cleaned := ordinalSuffix.ReplaceAllString(strings.TrimSpace(s), "$1")
	t, err := time.Parse("2 Jan 2006", cleaned)
	if err != nil {
		return "", common.NewAppError(common.CodeDateParse, fmt.Sprintf("cannot parse period date %q", s), err)
	}
	return t.Format("2006/01/02"), nil
}
