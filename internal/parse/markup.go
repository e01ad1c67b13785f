package parse

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
)

// Class fragments that mark a per-drawing container across the page
// revisions seen so far. Matched as substrings; the site suffixes them with
// theme tokens.
var containerClasses = []string{"result-item", "draw-result", "result-card"}

// fromMarkup extracts drawings from pages that wrap each result in a marked
// container element. The most precise strategy, and the first to break when
// the markup shifts.
func fromMarkup(body []byte, diag *models.Diagnostics) []models.DrawResult {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		diag.Step("markup_parse", false, err.Error())
		return nil
	}

	cards := doc.Find("div, li, article, section").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classContainsAny(s, containerClasses)
	})
	diag.Counts.CardsFound = cards.Length()
	diag.Step("markup_containers", cards.Length() > 0, fmt.Sprintf("%d candidate cards", cards.Length()))
	if cards.Length() == 0 {
		return nil
	}

	var results []models.DrawResult
	cards.Each(func(i int, card *goquery.Selection) {
		r, err := drawFromCard(card)
		if err != nil {
			diag.ItemError(fmt.Sprintf("card %d", i), err)
			return
		}
		if ok, why := validateDraw(r); !ok {
			diag.Step("markup_validate", false, why)
			return
		}
		results = append(results, r)
	})
	return results
}

func classContainsAny(s *goquery.Selection, fragments []string) bool {
	class := s.AttrOr("class", "")
	for _, fragment := range fragments {
		if strings.Contains(class, fragment) {
			return true
		}
	}
	return false
}

func drawFromCard(card *goquery.Selection) (models.DrawResult, error) {
	date := strings.TrimSpace(card.Find("[class*=date]").First().Text())
	if date == "" {
		return models.DrawResult{}, errors.New("no date element")
	}

	// Numeric leaf elements in document order. Wrappers are skipped so a
	// parent around the ball spans does not contribute its children twice.
	var numeric []int
	card.Find("span, div, li, td, strong, b").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s.Text())); err == nil {
			numeric = append(numeric, n)
		}
	})
	if len(numeric) == 0 {
		return models.DrawResult{}, errors.New("no numeric tokens")
	}

	r := models.DrawResult{
		Date:         prettifyDate(date),
		AllStarBonus: 1,
		Jackpot:      models.JackpotUnknown,
		IsLive:       true,
	}
	if len(numeric) >= models.MainNumberCount {
		r.Numbers = numeric[:models.MainNumberCount:models.MainNumberCount]
	} else {
		r.Numbers = numeric
	}

	if star := firstInt(card.Find("[class*=star]").First().Text()); star > 0 {
		r.StarBall = star
	} else if len(numeric) > models.MainNumberCount {
		r.StarBall = numeric[models.MainNumberCount]
	}
	if bonus := firstInt(card.Find("[class*=bonus], [class*=multiplier]").First().Text()); bonus > 0 {
		r.AllStarBonus = bonus
	}
	if winners := firstInt(strings.ReplaceAll(card.Find("[class*=winner]").First().Text(), ",", "")); winners > 0 {
		r.Winners = winners
	}
	if jackpot := strings.TrimSpace(card.Find("[class*=jackpot]").First().Text()); jackpot != "" {
		r.Jackpot = jackpot
	}
	return r, nil
}
