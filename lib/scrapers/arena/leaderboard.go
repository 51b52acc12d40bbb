package arena

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"arenafeed/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// Entry is one ranked model on a leaderboard page.
type Entry struct {
	Rank         int     `json:"rank"`
	Model        string  `json:"model"`
	Rating       float64 `json:"rating"`
	Uncertainty  float64 `json:"uncertainty"`
	Votes        int     `json:"votes,omitempty"`
	Organization string  `json:"organization,omitempty"`
}

// RowError records a table row that was rejected during parsing.
type RowError struct {
	Row int
	Err error
}

// Snapshot is the full set of ranked entries scraped from one
// leaderboard page, in source order. Ranks are assigned from that
// order, so they always form the sequence 1..len(Entries).
type Snapshot struct {
	Entries []Entry `json:"entries"`
	// rows that failed validation and were excluded
	Rejected []RowError `json:"-"`
}

// FetchLeaderboard fetches one leaderboard page (e.g.
// "/leaderboard/text/overall") and parses the ranking table out of it.
func (c *Client) FetchLeaderboard(ctx context.Context, path string) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "FetchLeaderboard")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch leaderboard page")
		return Snapshot{}, fmt.Errorf("%w: GET %s: %s", ErrNetwork, path, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "leaderboard page returned an error status")
		return Snapshot{}, fmt.Errorf("%w: GET %s: status %d", ErrNetwork, path, res.StatusCode())
	}

	snapshot, err := ParseLeaderboard(ctx, res.Body())
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse leaderboard page")
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

var ratingNumber = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)

func parseNumber(s string) (float64, error) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("value is not finite: %s", s)
	}
	return value, nil
}

// the rating cell renders as "<rating>" or "<rating> ±<uncertainty>",
// the first number is the rating, the second (if any) the uncertainty
func parseRatingCell(text string) (float64, float64, error) {
	numbers := ratingNumber.FindAllString(text, -1)
	if len(numbers) == 0 {
		return 0, 0, fmt.Errorf("no rating number parsed from: %q", text)
	}

	rating, err := parseNumber(numbers[0])
	if err != nil {
		return 0, 0, err
	}
	uncertainty := float64(0)
	if len(numbers) > 1 {
		uncertainty, err = parseNumber(numbers[1])
		if err != nil {
			return 0, 0, err
		}
	}
	return rating, uncertainty, nil
}

// ParseLeaderboard extracts the ranking table from a leaderboard page.
// Rows missing a model name or a parseable rating are rejected and
// recorded on the snapshot; surviving rows keep their source order and
// are ranked 1..N from it.
func ParseLeaderboard(ctx context.Context, body []byte) (Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrParse, err)
	}
	if doc.Find("table").Length() == 0 {
		return Snapshot{}, fmt.Errorf("%w: no table in page", ErrParse)
	}

	var snapshot Snapshot
	doc.Find("tr").Each(func(row int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 4 {
			// header or spacer row
			return
		}

		entry, err := parseRow(tr, cells)
		if err != nil {
			slog.WarnContext(ctx, "rejected leaderboard row", "row", row, "err", err)
			snapshot.Rejected = append(snapshot.Rejected, RowError{Row: row, Err: err})
			return
		}

		entry.Rank = len(snapshot.Entries) + 1
		snapshot.Entries = append(snapshot.Entries, entry)
	})

	if len(snapshot.Entries) == 0 {
		return Snapshot{}, fmt.Errorf("%w: parsed 0 models from leaderboard table", ErrParse)
	}
	return snapshot, nil
}

// cellText flattens one table cell to a cleaned string, markup and all.
func cellText(cells *goquery.Selection, idx int) string {
	cell := cells.Eq(idx)
	if len(cell.Nodes) == 0 {
		return ""
	}
	return htmlutil.CleanText(htmlutil.GetText(cell.Nodes[0]))
}

func parseRow(tr *goquery.Selection, cells *goquery.Selection) (Entry, error) {
	model := htmlutil.CleanText(tr.Find("a[title]").First().AttrOr("title", ""))
	if model == "" {
		return Entry{}, fmt.Errorf("%w: missing model name", ErrValidation)
	}

	rating, uncertainty, err := parseRatingCell(cellText(cells, 3))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %s", ErrValidation, model, err)
	}

	entry := Entry{
		Model:       model,
		Rating:      rating,
		Uncertainty: uncertainty,
	}
	if cells.Length() > 4 {
		votes := ratingNumber.FindString(cellText(cells, 4))
		if votes != "" {
			parsed, err := parseNumber(votes)
			if err == nil {
				entry.Votes = int(parsed)
			}
		}
	}
	if cells.Length() > 5 {
		entry.Organization = cellText(cells, 5)
	}
	return entry, nil
}
