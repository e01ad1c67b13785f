package parse

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
)

const cardPage = `<html><body>
<div class="results-list">
  <div class="result-item featured">
    <p class="draw-date">Wednesday, October 29, 2025</p>
    <span class="number">21</span>
    <span class="number">33</span>
    <span class="number">40</span>
    <span class="number">42</span>
    <span class="number">50</span>
    <span class="star-ball">5</span>
    <p class="bonus">All Star Bonus: 2x</p>
    <p class="winners">Winners: 1,204</p>
    <p class="jackpot">$27.39 Million</p>
  </div>
  <div class="result-item">
    <p class="draw-date">Monday, October 27, 2025</p>
    <span class="number">5</span>
    <span class="number">11</span>
    <span class="number">17</span>
    <span class="number">29</span>
    <span class="number">46</span>
    <span class="star-ball">9</span>
  </div>
  <div class="result-item">
    <p class="draw-date">Saturday, October 25, 2025</p>
    <span class="number">60</span>
    <span class="number">14</span>
    <span class="number">26</span>
    <span class="number">37</span>
    <span class="number">48</span>
    <span class="star-ball">3</span>
  </div>
</div>
</body></html>`

const tablePage = `<html><body>
<table class="archive">
  <tr><th>Date</th><th colspan="5">Numbers</th><th>Star Ball</th><th>Bonus</th></tr>
  <tr><td>10/29/2025</td><td>21</td><td>33</td><td>40</td><td>42</td><td>50</td><td>5</td><td>2</td></tr>
  <tr><td>10/27/2025</td><td>5</td><td>11</td><td>17</td><td>29</td><td>46</td><td>9</td><td>3</td></tr>
</table>
</body></html>`

const textPage = `<html><body>
<h1>Iowa Lottery</h1>
<h2>Lotto America Winning Numbers</h2>
<p>Drawing Date: 10/29</p>
<div class="numbers-row">
  <span>21</span> <span>33</span> <span>40</span> <span>42</span> <span>50</span> <span>5</span>
</div>
<p>All Star Bonus: 2x</p>
</body></html>`

func TestResults_StructuredMarkup(t *testing.T) {
	diag := &models.Diagnostics{}
	results := Results([]byte(cardPage), KindAuto, diag)

	if len(results) != 2 {
		t.Fatalf("Expected 2 valid results, but got %d", len(results))
	}

	first := results[0]
	if first.Date != "Wednesday, October 29, 2025" {
		t.Errorf("Expected date 'Wednesday, October 29, 2025', but got %q", first.Date)
	}
	if !reflect.DeepEqual(first.Numbers, []int{21, 33, 40, 42, 50}) {
		t.Errorf("Expected numbers [21 33 40 42 50], but got %v", first.Numbers)
	}
	if first.StarBall != 5 {
		t.Errorf("Expected star ball 5, but got %d", first.StarBall)
	}
	if first.AllStarBonus != 2 {
		t.Errorf("Expected bonus 2, but got %d", first.AllStarBonus)
	}
	if first.Winners != 1204 {
		t.Errorf("Expected 1204 winners, but got %d", first.Winners)
	}
	if first.Jackpot != "$27.39 Million" {
		t.Errorf("Expected jackpot '$27.39 Million', but got %q", first.Jackpot)
	}
	if !first.IsLive {
		t.Error("Expected live result")
	}

	second := results[1]
	if second.AllStarBonus != 1 {
		t.Errorf("Expected default bonus 1, but got %d", second.AllStarBonus)
	}
	if second.Jackpot != models.JackpotUnknown {
		t.Errorf("Expected jackpot %q, but got %q", models.JackpotUnknown, second.Jackpot)
	}

	t.Run("Test out of range card is dropped", func(t *testing.T) {
		for _, r := range results {
			for _, n := range r.Numbers {
				if n > models.MainNumberMax {
					t.Errorf("Expected no number above %d, but got %d", models.MainNumberMax, n)
				}
			}
		}
		if !hasStep(diag, "markup_validate", false) {
			t.Error("Expected a failed markup_validate step for the out of range card")
		}
	})

	t.Run("Test diagnostics counts", func(t *testing.T) {
		if diag.Counts.CardsFound != 3 {
			t.Errorf("Expected 3 cards found, but got %d", diag.Counts.CardsFound)
		}
		if diag.Counts.CompleteResults != 2 {
			t.Errorf("Expected 2 complete results, but got %d", diag.Counts.CompleteResults)
		}
	})
}

func TestResults_TableFallback(t *testing.T) {
	diag := &models.Diagnostics{}
	results := Results([]byte(tablePage), KindAuto, diag)

	if len(results) != 2 {
		t.Fatalf("Expected 2 results from the table, but got %d", len(results))
	}
	if results[0].Date != "Wednesday, October 29, 2025" {
		t.Errorf("Expected reformatted date, but got %q", results[0].Date)
	}
	if !reflect.DeepEqual(results[0].Numbers, []int{21, 33, 40, 42, 50}) {
		t.Errorf("Expected numbers [21 33 40 42 50], but got %v", results[0].Numbers)
	}
	if results[0].StarBall != 5 {
		t.Errorf("Expected star ball 5, but got %d", results[0].StarBall)
	}
	if results[0].AllStarBonus != 2 {
		t.Errorf("Expected bonus 2 from the seventh cell, but got %d", results[0].AllStarBonus)
	}

	t.Run("Test markup strategy was tried first", func(t *testing.T) {
		markupAt, tableAt := -1, -1
		for i, s := range diag.Steps {
			switch s.Label {
			case "strategy_markup":
				markupAt = i
			case "strategy_table":
				tableAt = i
			}
		}
		if markupAt == -1 || tableAt == -1 {
			t.Fatalf("Expected both strategy steps, but got markup=%d table=%d", markupAt, tableAt)
		}
		if markupAt > tableAt {
			t.Error("Expected the markup strategy to run before the table strategy")
		}
		if diag.Steps[markupAt].OK {
			t.Error("Expected the markup strategy to report no results on a table page")
		}
	})
}

func TestResults_TextScan(t *testing.T) {
	diag := &models.Diagnostics{}
	results := Results([]byte(textPage), KindAuto, diag)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result from the text scan, but got %d", len(results))
	}
	r := results[0]

	wantDate := time.Date(time.Now().Year(), time.October, 29, 0, 0, 0, 0, time.UTC).Format(displayDateLayout)
	if r.Date != wantDate {
		t.Errorf("Expected date %q, but got %q", wantDate, r.Date)
	}
	if !reflect.DeepEqual(r.Numbers, []int{21, 33, 40, 42, 50}) {
		t.Errorf("Expected numbers [21 33 40 42 50], but got %v", r.Numbers)
	}
	if r.StarBall != 5 {
		t.Errorf("Expected star ball 5, but got %d", r.StarBall)
	}
	if r.AllStarBonus != 2 {
		t.Errorf("Expected bonus 2, but got %d", r.AllStarBonus)
	}
	if r.Jackpot != models.JackpotUnknown {
		t.Errorf("Expected jackpot %q, but got %q", models.JackpotUnknown, r.Jackpot)
	}

	t.Run("Test year assumption is recorded", func(t *testing.T) {
		if !hasStep(diag, "date_year_assumed", true) {
			t.Error("Expected a date_year_assumed step")
		}
	})
}

func TestResults_RawTextFallback(t *testing.T) {
	body := "Lotto America Winning Numbers for this week: 7 19 23 31 44 2 All Star Bonus 3"
	diag := &models.Diagnostics{}
	results := Results([]byte(body), KindAuto, diag)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result from the raw scan, but got %d", len(results))
	}
	r := results[0]
	if !reflect.DeepEqual(r.Numbers, []int{7, 19, 23, 31, 44}) {
		t.Errorf("Expected numbers [7 19 23 31 44], but got %v", r.Numbers)
	}
	if r.StarBall != 2 {
		t.Errorf("Expected star ball 2, but got %d", r.StarBall)
	}
	if r.AllStarBonus != 3 {
		t.Errorf("Expected bonus 3, but got %d", r.AllStarBonus)
	}
	if r.Date == "" {
		t.Error("Expected a date even without one in the text")
	}
}

func TestResults_OpenData(t *testing.T) {
	body := `[
	 {"draw_date":"2025-10-25T00:00:00.000","winning_numbers":"02 14 26 37 48 03","multiplier":"2"},
	 {"draw_date":"2025-10-29T00:00:00.000","winning_numbers":"21 33 40 42 50 05","multiplier":"2"},
	 {"draw_date":"2025-10-27T00:00:00.000","winning_numbers":"05 11 17 29 46 09"},
	 {"draw_date":"2025-10-22T00:00:00.000","winning_numbers":"21 33","multiplier":"4"}
	]`

	diag := &models.Diagnostics{}
	results := Results([]byte(body), KindAuto, diag)

	if len(results) != 3 {
		t.Fatalf("Expected 3 valid results, but got %d", len(results))
	}

	t.Run("Test records are sorted newest first", func(t *testing.T) {
		if results[0].Date != "Wednesday, October 29, 2025" {
			t.Errorf("Expected newest record first, but got %q", results[0].Date)
		}
		if results[2].Date != "Saturday, October 25, 2025" {
			t.Errorf("Expected oldest record last, but got %q", results[2].Date)
		}
	})

	t.Run("Test zero padded tokens parse", func(t *testing.T) {
		if results[0].StarBall != 5 {
			t.Errorf("Expected star ball 5 from token 05, but got %d", results[0].StarBall)
		}
	})

	t.Run("Test missing multiplier defaults to 1", func(t *testing.T) {
		if results[1].AllStarBonus != 1 {
			t.Errorf("Expected default bonus 1, but got %d", results[1].AllStarBonus)
		}
	})

	t.Run("Test short record becomes an item error", func(t *testing.T) {
		if len(diag.Errors) == 0 {
			t.Fatal("Expected at least one item error for the short record")
		}
		if !hasStep(diag, "item_error", false) {
			t.Error("Expected an item_error step")
		}
	})
}

func TestResults_KindSelection(t *testing.T) {
	jsonBody := `[{"draw_date":"2025-10-29","winning_numbers":"21 33 40 42 50 05","multiplier":"2"}]`

	t.Run("Test json kind skips the HTML cascade", func(t *testing.T) {
		diag := &models.Diagnostics{}
		results := Results([]byte(jsonBody), KindJSON, diag)
		if len(results) != 1 {
			t.Fatalf("Expected 1 result, but got %d", len(results))
		}
		for _, s := range diag.Steps {
			if s.Label == "strategy_markup" || s.Label == "strategy_table" {
				t.Errorf("Expected no HTML strategy steps for kind json, but got %s", s.Label)
			}
		}
	})

	t.Run("Test auto kind sniffs a JSON body", func(t *testing.T) {
		diag := &models.Diagnostics{}
		results := Results([]byte("  \n"+jsonBody), KindAuto, diag)
		if len(results) != 1 {
			t.Fatalf("Expected 1 result from sniffed JSON, but got %d", len(results))
		}
		if diag.Steps[len(diag.Steps)-1].Label != "strategy_opendata" {
			t.Errorf("Expected the opendata strategy to run first, but last step was %s", diag.Steps[len(diag.Steps)-1].Label)
		}
	})

	t.Run("Test html kind never runs the JSON decoder", func(t *testing.T) {
		diag := &models.Diagnostics{}
		Results([]byte(jsonBody), KindHTML, diag)
		for _, s := range diag.Steps {
			if s.Label == "strategy_opendata" {
				t.Error("Expected no opendata step for kind html")
			}
		}
	})
}

func TestResults_EmptyAndGarbage(t *testing.T) {
	t.Run("Test empty body yields no results", func(t *testing.T) {
		diag := &models.Diagnostics{}
		if results := Results(nil, KindAuto, diag); results != nil {
			t.Errorf("Expected nil results, but got %v", results)
		}
	})

	t.Run("Test prose without numbers yields no results", func(t *testing.T) {
		diag := &models.Diagnostics{}
		body := "<html><body><p>The site is down for maintenance.</p></body></html>"
		if results := Results([]byte(body), KindAuto, diag); results != nil {
			t.Errorf("Expected nil results, but got %v", results)
		}
		if len(diag.Steps) == 0 {
			t.Error("Expected diagnostics steps recording the failed strategies")
		}
	})

	t.Run("Test out of range rows yield no results anywhere", func(t *testing.T) {
		body := `<table><tr><th>h</th></tr><tr><td>10/29/2025</td><td>60</td><td>33</td><td>40</td><td>42</td><td>50</td><td>5</td></tr></table>`
		diag := &models.Diagnostics{}
		if results := Results([]byte(body), KindAuto, diag); len(results) != 0 {
			t.Errorf("Expected no results for out of range numbers, but got %v", results)
		}
		if !hasStep(diag, "table_validate", false) {
			t.Error("Expected a failed table_validate step")
		}
	})
}

func TestResults_Idempotent(t *testing.T) {
	for _, body := range []string{cardPage, tablePage, textPage} {
		first := Results([]byte(body), KindAuto, &models.Diagnostics{})
		second := Results([]byte(body), KindAuto, &models.Diagnostics{})
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Expected identical results on repeated parses, but got %v then %v", first, second)
		}
	}
}

func TestValidateDraw(t *testing.T) {
	good := models.DrawResult{Numbers: []int{1, 2, 3, 4, 52}, StarBall: 10}

	cases := []struct {
		name   string
		mutate func(r *models.DrawResult)
		valid  bool
	}{
		{"Test valid record", func(r *models.DrawResult) {}, true},
		{"Test four numbers", func(r *models.DrawResult) { r.Numbers = r.Numbers[:4] }, false},
		{"Test six numbers", func(r *models.DrawResult) { r.Numbers = append(r.Numbers, 6) }, false},
		{"Test number zero", func(r *models.DrawResult) { r.Numbers[0] = 0 }, false},
		{"Test number above max", func(r *models.DrawResult) { r.Numbers[4] = 53 }, false},
		{"Test star ball zero", func(r *models.DrawResult) { r.StarBall = 0 }, false},
		{"Test star ball above max", func(r *models.DrawResult) { r.StarBall = 11 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := good
			r.Numbers = append([]int(nil), good.Numbers...)
			tc.mutate(&r)
			ok, why := validateDraw(r)
			if ok != tc.valid {
				t.Errorf("Expected valid=%v, but got %v (%s)", tc.valid, ok, why)
			}
		})
	}
}

func TestPrettifyDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Wednesday, October 29, 2025", "Wednesday, October 29, 2025"},
		{"October 29, 2025", "Wednesday, October 29, 2025"},
		{"10/29/2025", "Wednesday, October 29, 2025"},
		{"2025-10-29", "Wednesday, October 29, 2025"},
		{"  Oct 29, 2025 ", "Wednesday, October 29, 2025"},
		{"sometime soon", "sometime soon"},
	}
	for _, tc := range cases {
		if got := prettifyDate(tc.in); got != tc.want {
			t.Errorf("Expected %q for %q, but got %q", tc.want, tc.in, got)
		}
	}
}

func hasStep(d *models.Diagnostics, label string, ok bool) bool {
	for _, s := range d.Steps {
		if s.Label == label && s.OK == ok {
			return true
		}
	}
	return false
}

func ExampleResults() {
	diag := &models.Diagnostics{}
	results := Results([]byte(tablePage), KindHTML, diag)
	fmt.Println(results[0].Date, results[0].Numbers, results[0].StarBall)
	// Output: Wednesday, October 29, 2025 [21 33 40 42 50] 5
}
