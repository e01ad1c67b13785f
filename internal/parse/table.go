package parse

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
)

// fromTable extracts drawings from archive-style pages that list one drawing
// per table row: a date cell followed by the five main numbers, the star
// ball, and sometimes the bonus multiplier.
func fromTable(body []byte, diag *models.Diagnostics) []models.DrawResult {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		diag.Step("table_parse", false, err.Error())
		return nil
	}

	rows := doc.Find("table tr")
	diag.Step("table_rows", rows.Length() > 1, fmt.Sprintf("%d rows", rows.Length()))
	if rows.Length() <= 1 {
		return nil
	}

	var results []models.DrawResult
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header
		}
		r, err := drawFromRow(row)
		if err != nil {
			// Most rows are navigation or prize tables, not drawings.
			return
		}
		if ok, why := validateDraw(r); !ok {
			diag.Step("table_validate", false, why)
			return
		}
		results = append(results, r)
	})
	return results
}

func drawFromRow(row *goquery.Selection) (models.DrawResult, error) {
	cells := row.Find("td, th")
	if cells.Length() == 0 {
		return models.DrawResult{}, fmt.Errorf("no cells")
	}

	// Only cells whose whole text is a number count as ball cells.
	var numeric []int
	cells.Each(func(_ int, cell *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(cell.Text())); err == nil {
			numeric = append(numeric, n)
		}
	})
	if len(numeric) < models.MainNumberCount+1 {
		return models.DrawResult{}, fmt.Errorf("%d numeric cells, need at least %d", len(numeric), models.MainNumberCount+1)
	}

	r := models.DrawResult{
		Date:         prettifyDate(cells.First().Text()),
		Numbers:      numeric[:models.MainNumberCount:models.MainNumberCount],
		StarBall:     numeric[models.MainNumberCount],
		AllStarBonus: 1,
		Jackpot:      models.JackpotUnknown,
		IsLive:       true,
	}
	if len(numeric) > models.MainNumberCount+1 && numeric[models.MainNumberCount+1] >= 1 {
		r.AllStarBonus = numeric[models.MainNumberCount+1]
	}
	return r, nil
}
