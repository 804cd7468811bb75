package rumor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateDetector locates calendar-like date tokens in free text. The matching
// strategy is heuristic by nature, so it stays behind an interface and can be
// swapped or stubbed in tests.
type DateDetector interface {
	DetectCandidateDates(text string, referenceDate time.Time) []time.Time
}

// TokenDetector is the default DateDetector. It recognizes month-name dates
// ("September 9", "Sept. 9, 2025"), slash dates ("9/9/2025"), and ISO dates
// ("2025-09-09"), returning matches in document order.
type TokenDetector struct{}

var _ DateDetector = TokenDetector{}

var (
	monthNameExpr = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?`)
	slashDateExpr = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	isoDateExpr   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

type candidate struct {
	pos  int
	date time.Time
}

// DetectCandidateDates scans text and returns every recognized date, ordered
// by position in the text. Year-less tokens resolve against the reference
// date's year.
func (TokenDetector) DetectCandidateDates(text string, referenceDate time.Time) []time.Time {
	var found []candidate

	for _, m := range monthNameExpr.FindAllStringSubmatchIndex(text, -1) {
		monthWord := strings.ToLower(text[m[2]:m[3]])
		month, ok := monthsByPrefix[monthWord[:3]]
		if !ok {
			continue
		}
		day, err := strconv.Atoi(text[m[4]:m[5]])
		if err != nil || day < 1 || day > 31 {
			continue
		}
		year := referenceDate.Year()
		if m[6] >= 0 {
			year, err = strconv.Atoi(text[m[6]:m[7]])
			if err != nil {
				continue
			}
		}
		found = append(found, candidate{
			pos:  m[0],
			date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		})
	}

	for _, expr := range []*regexp.Regexp{slashDateExpr, isoDateExpr} {
		for _, m := range expr.FindAllStringIndex(text, -1) {
			parsed, err := dateparse.ParseAny(text[m[0]:m[1]])
			if err != nil {
				continue
			}
			found = append(found, candidate{pos: m[0], date: parsed.UTC()})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	dates := make([]time.Time, len(found))
	for i, c := range found {
		dates[i] = c.date
	}
	return dates
}
