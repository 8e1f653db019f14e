package order

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultCodePrefix is the brand tag at the start of every order code
const DefaultCodePrefix = "TXR"

const codeDateLayout = "20060102"

var codePattern = regexp.MustCompile(`^[A-Z]{2,8}-\d{8}-\d{3,}$`)

// CodeGenerator formats order codes as PREFIX-YYYYMMDD-NNN.
// The date is taken in the shop's time zone so codes match the customer's calendar day.
type CodeGenerator struct {
	prefix   string
	location *time.Location
}

// NewCodeGenerator creates a generator; an empty prefix falls back to DefaultCodePrefix
// and a nil location to UTC.
func NewCodeGenerator(prefix string, location *time.Location) CodeGenerator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultCodePrefix
	}
	if location == nil {
		location = time.UTC
	}
	return CodeGenerator{prefix: prefix, location: location}
}

// DayPrefix returns the shared prefix of all codes issued on the day of t,
// e.g. "TXR-20260301-".
func (g CodeGenerator) DayPrefix(t time.Time) string {
	return g.prefix + "-" + t.In(g.location).Format(codeDateLayout) + "-"
}

// Format builds the code for the seq-th order of the day of t.
// Sequences above 999 simply widen the suffix.
func (g CodeGenerator) Format(t time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", g.DayPrefix(t), seq)
}

// SequenceOf returns the numeric suffix of code when it carries dayPrefix
func SequenceOf(code, dayPrefix string) (int, bool) {
	suffix, ok := strings.CutPrefix(code, dayPrefix)
	if !ok || suffix == "" {
		return 0, false
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

// NormalizeCode trims and upper-cases a customer-entered code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsWellFormedCode reports whether code has the PREFIX-YYYYMMDD-NNN shape
func IsWellFormedCode(code string) bool {
	return codePattern.MatchString(code)
}
