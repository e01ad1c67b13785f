package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
)

const (
	anchorWinning = "Winning Numbers"
	anchorDate    = "Drawing Date:"
	anchorBonus   = "All Star Bonus"
)

var (
	tagPat      = regexp.MustCompile(`<[^>]*>`)
	spacePat    = regexp.MustCompile(`\s+`)
	monthDayPat = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	// Ball tokens are one or two digits; a marked token is one that is the
	// entire text of an element.
	twoDigitPat = regexp.MustCompile(`\b\d{1,2}\b`)
	markedPat   = regexp.MustCompile(`>\s*(\d{1,2})\s*<`)
	bonusPat    = regexp.MustCompile(`(?i)all star bonus[:\s]*(\d{1,2})`)
	// Six consecutive short numbers separated by whitespace or hyphens.
	sixNumbersPat = regexp.MustCompile(`(?:\b\d{1,2}\b[\s-]+){5}\b\d{1,2}\b`)
)

// fromText extracts a single drawing from page variants without reliable
// markup by walking the visible text positionally: the "Winning Numbers"
// anchor, then "Drawing Date:", then the ball tokens up to the bonus label.
// When even that fails it degrades to a raw scan for six consecutive short
// numbers anywhere after the anchor.
func fromText(body []byte, diag *models.Diagnostics) []models.DrawResult {
	raw := string(body)
	text := normalizeSpace(stripTags(raw))
	if text == "" {
		diag.Step("text_scan", false, "empty document text")
		return nil
	}

	bonus := 1
	if m := bonusPat.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			bonus = n
		}
	}

	if r, ok := windowedScan(raw, bonus, diag); ok {
		return []models.DrawResult{r}
	}
	return rawScan(text, bonus, diag)
}

// windowedScan works on the raw document so ball tokens can be required to
// sit in their own elements, which keeps stray digits in prose out.
func windowedScan(raw string, bonus int, diag *models.Diagnostics) (models.DrawResult, bool) {
	start := strings.Index(raw, anchorWinning)
	diag.Step("text_anchor", start >= 0, anchorWinning)
	if start < 0 {
		return models.DrawResult{}, false
	}
	window := raw[start:]

	dateIdx := strings.Index(window, anchorDate)
	diag.Step("text_anchor", dateIdx >= 0, anchorDate)
	if dateIdx < 0 {
		return models.DrawResult{}, false
	}
	block := window[dateIdx:]
	if end := strings.Index(block, anchorBonus); end >= 0 {
		block = block[:end]
	}

	dateMatch := monthDayPat.FindStringSubmatchIndex(block)
	if dateMatch == nil {
		diag.Step("text_date", false, "no month/day after "+anchorDate)
		return models.DrawResult{}, false
	}
	date, ok := buildDate(block, dateMatch, diag)
	if !ok {
		return models.DrawResult{}, false
	}

	after := block[dateMatch[1]:]
	tokens := markedTokens(after, models.MainNumberCount+1)
	if len(tokens) == 0 {
		tokens = twoDigitTokens(normalizeSpace(stripTags(after)), models.MainNumberCount+1)
	}
	diag.Step("text_numbers", len(tokens) >= models.MainNumberCount+1, fmt.Sprintf("%d ball tokens in window", len(tokens)))
	if len(tokens) < models.MainNumberCount+1 {
		return models.DrawResult{}, false
	}

	r := models.DrawResult{
		Date:         date,
		Numbers:      tokens[:models.MainNumberCount:models.MainNumberCount],
		StarBall:     tokens[models.MainNumberCount],
		AllStarBonus: bonus,
		Jackpot:      models.JackpotUnknown,
		IsLive:       true,
	}
	if ok, why := validateDraw(r); !ok {
		diag.Step("text_validate", false, why)
		return models.DrawResult{}, false
	}
	return r, true
}

// rawScan is the last resort over flattened text: the first run of six
// consecutive short numbers, scoped to text after the anchor when present.
func rawScan(text string, bonus int, diag *models.Diagnostics) []models.DrawResult {
	scope := text
	if i := strings.Index(text, anchorWinning); i >= 0 {
		scope = text[i:]
	}
	run := sixNumbersPat.FindString(scope)
	diag.Step("text_raw_sequence", run != "", "six consecutive short numbers")
	if run == "" {
		return nil
	}
	tokens := twoDigitTokens(run, models.MainNumberCount+1)
	if len(tokens) < models.MainNumberCount+1 {
		return nil
	}

	date := ""
	if m := monthDayPat.FindStringSubmatchIndex(text); m != nil {
		date, _ = buildDate(text, m, diag)
	}
	if date == "" {
		date = time.Now().Format(displayDateLayout)
		diag.Step("text_raw_date", false, "no date in text, using today")
	}

	r := models.DrawResult{
		Date:         date,
		Numbers:      tokens[:models.MainNumberCount:models.MainNumberCount],
		StarBall:     tokens[models.MainNumberCount],
		AllStarBonus: bonus,
		Jackpot:      models.JackpotUnknown,
		IsLive:       true,
	}
	if ok, why := validateDraw(r); !ok {
		diag.Step("text_validate", false, why)
		return nil
	}
	return []models.DrawResult{r}
}

// buildDate turns a month/day submatch into the display form. Sources in
// this family print dates without a year; the current year is assumed and
// the assumption is recorded.
func buildDate(s string, match []int, diag *models.Diagnostics) (string, bool) {
	month, _ := strconv.Atoi(s[match[2]:match[3]])
	day, _ := strconv.Atoi(s[match[4]:match[5]])

	year := time.Now().Year()
	if match[6] >= 0 {
		year, _ = strconv.Atoi(s[match[6]:match[7]])
		if year < 100 {
			year += 2000
		}
	} else {
		diag.Step("date_year_assumed", true, fmt.Sprintf("source date has no year, assuming %d", year))
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		diag.Step("text_date", false, fmt.Sprintf("implausible month/day %d/%d", month, day))
		return "", false
	}
	return t.Format(displayDateLayout), true
}

func stripTags(s string) string {
	return tagPat.ReplaceAllString(s, " ")
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(spacePat.ReplaceAllString(s, " "))
}

func twoDigitTokens(s string, max int) []int {
	var out []int
	for _, m := range twoDigitPat.FindAllString(s, -1) {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, n)
		if len(out) == max {
			break
		}
	}
	return out
}

func markedTokens(s string, max int) []int {
	var out []int
	for _, m := range markedPat.FindAllStringSubmatch(s, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, n)
		if len(out) == max {
			break
		}
	}
	return out
}
