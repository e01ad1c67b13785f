// Package parse extracts Lotto America drawings from whatever the source
// returns. Vendor pages change markup without notice, so extraction runs as a
// cascade of strategies from the most structured to the most permissive, and
// every candidate record passes the same validation before it is emitted.
package parse

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
)

// Source kinds accepted by Results.
const (
	KindAuto = "auto"
	KindHTML = "html"
	KindJSON = "json"
)

const displayDateLayout = "Monday, January 2, 2006"

// A strategy inspects one document and returns the valid records it could
// extract. An empty return means "try the next one".
type strategy struct {
	name string
	run  func(body []byte, diag *models.Diagnostics) []models.DrawResult
}

// Results runs the extraction cascade over body and returns the first
// non-empty set of validated records. kind selects the strategy order:
// "html" tries markup, then tables, then positional text; "json" only the
// open-data decoder; "auto" sniffs the body and tries everything.
func Results(body []byte, kind string, diag *models.Diagnostics) []models.DrawResult {
	for _, s := range strategiesFor(kind, body) {
		results := s.run(body, diag)
		diag.Step("strategy_"+s.name, len(results) > 0, fmt.Sprintf("%d valid results", len(results)))
		if len(results) > 0 {
			diag.Counts.CompleteResults = len(results)
			return results
		}
	}
	return nil
}

func strategiesFor(kind string, body []byte) []strategy {
	htmlCascade := []strategy{
		{"markup", fromMarkup},
		{"table", fromTable},
		{"text", fromText},
	}
	openData := strategy{"opendata", fromOpenData}

	switch kind {
	case KindJSON:
		return []strategy{openData}
	case KindHTML:
		return htmlCascade
	default:
		if looksLikeJSON(body) {
			return append([]strategy{openData}, htmlCascade...)
		}
		return htmlCascade
	}
}

// looksLikeJSON sniffs the first non-space byte. Open-data endpoints return a
// bare array; anything tag-shaped goes down the HTML cascade.
func looksLikeJSON(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')
}

// validateDraw applies the record contract every strategy's candidates must
// meet: exactly five main numbers within the game range and a star ball
// within its range. Partial records are never emitted.
func validateDraw(r models.DrawResult) (bool, string) {
	if len(r.Numbers) != models.MainNumberCount {
		return false, fmt.Sprintf("expected %d main numbers, got %d", models.MainNumberCount, len(r.Numbers))
	}
	for _, n := range r.Numbers {
		if n < models.MainNumberMin || n > models.MainNumberMax {
			return false, fmt.Sprintf("main number %d out of range", n)
		}
	}
	if r.StarBall < models.StarBallMin || r.StarBall > models.StarBallMax {
		return false, fmt.Sprintf("star ball %d out of range", r.StarBall)
	}
	return true, ""
}

var intPat = regexp.MustCompile(`\d+`)

// firstInt returns the first run of digits in s as an int, or 0 if there is
// none. Handles texts like "2x" and "Winners: 1,204" once commas are gone.
func firstInt(s string) int {
	m := intPat.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

var dateLayouts = []string{
	"Monday, January 2, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Mon, Jan 2, 2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
}

// prettifyDate renders a source date in the long display form. Unparseable
// input passes through untouched rather than dropping the record.
func prettifyDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return raw
}
