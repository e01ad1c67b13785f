package parse

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
)

// openDataRecord mirrors one row of the state open-data API. Every field
// arrives as a string except multiplier, which some datasets publish as a
// bare number, so it stays raw until extraction.
type openDataRecord struct {
	DrawDate       string          `json:"draw_date"`
	WinningNumbers string          `json:"winning_numbers"`
	Multiplier     json.RawMessage `json:"multiplier"`
}

var openDataDateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// fromOpenData decodes a JSON array of drawings. Records are served newest
// first regardless of the order the API returns them in.
func fromOpenData(body []byte, diag *models.Diagnostics) []models.DrawResult {
	var records []openDataRecord
	if err := json.Unmarshal(body, &records); err != nil {
		diag.Step("opendata_decode", false, err.Error())
		return nil
	}
	diag.Step("opendata_decode", len(records) > 0, fmt.Sprintf("%d records", len(records)))

	// ISO date strings sort lexicographically.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DrawDate > records[j].DrawDate
	})

	var results []models.DrawResult
	for i, rec := range records {
		r, err := drawFromOpenData(rec)
		if err != nil {
			diag.ItemError(fmt.Sprintf("record %d (%s)", i, rec.DrawDate), err)
			continue
		}
		if ok, why := validateDraw(r); !ok {
			diag.Step("opendata_validate", false, why)
			continue
		}
		results = append(results, r)
	}
	return results
}

func drawFromOpenData(rec openDataRecord) (models.DrawResult, error) {
	fields := strings.Fields(rec.WinningNumbers)
	if len(fields) < models.MainNumberCount+1 {
		return models.DrawResult{}, fmt.Errorf("winning_numbers has %d tokens, need %d", len(fields), models.MainNumberCount+1)
	}

	numbers := make([]int, 0, models.MainNumberCount)
	for _, f := range fields[:models.MainNumberCount] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return models.DrawResult{}, fmt.Errorf("bad number token %q", f)
		}
		numbers = append(numbers, n)
	}
	star, err := strconv.Atoi(fields[models.MainNumberCount])
	if err != nil {
		return models.DrawResult{}, fmt.Errorf("bad star ball token %q", fields[models.MainNumberCount])
	}

	r := models.DrawResult{
		Date:         openDataDate(rec.DrawDate),
		Numbers:      numbers,
		StarBall:     star,
		AllStarBonus: 1,
		Jackpot:      models.JackpotUnknown,
		IsLive:       true,
	}
	if m := firstInt(string(rec.Multiplier)); m >= 1 {
		r.AllStarBonus = m
	}
	return r, nil
}

func openDataDate(raw string) string {
	for _, layout := range openDataDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return raw
}
