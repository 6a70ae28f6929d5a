// Package analyzer produces the daily market report: it scrapes the index
// phase table from an analytics page, asks an LLM for a narrative summary,
// and renders both into an HTML page plus CSV history files.
package analyzer

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"shazam/internal/util"
)

// Row is one index entry parsed from the analytics table.
type Row struct {
	Symbol      string
	Description string
	Last        string
	Change      string
	PctChange   string
	Phase       string
	FiveDay     string
	ThreeMonth  string
	SixMonth    string
	YTD         string
	TSI         string
	RM50        string
	RM10        string
}

// targetSymbols are the broad-market ETFs the report tracks.
var targetSymbols = map[string]bool{
	"SPY": true, "QQQ": true, "IWM": true, "DIA": true, "VTI": true,
}

const (
	scrapeMaxAttempts = 3
	scrapeBaseDelay   = 5 * time.Second
)

var (
	tableRe   = regexp.MustCompile(`(?is)<table[^>]*>(.*?)</table>`)
	rowRe     = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	cellRe    = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)
)

// Scraper pulls the analytics page over plain HTTP with a browser
// User-Agent. Pages that render the table client-side yield no rows and the
// run fails cleanly.
type Scraper struct {
	client *http.Client
	log    *slog.Logger
}

func NewScraper() *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    slog.Default().With("component", "analyzer-scrape"),
	}
}

// Scrape fetches the page and extracts the rows for the tracked symbols.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) ([]Row, error) {
	var body []byte
	err := util.RetryHTTP(ctx, scrapeMaxAttempts, scrapeBaseDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return &util.StatusError{Code: resp.StatusCode}
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("analyzer: scrape %s: %w", pageURL, err)
	}

	rows := ParseTable(string(body))
	if len(rows) == 0 {
		return nil, fmt.Errorf("analyzer: no tracked symbols found at %s (page may require a browser)", pageURL)
	}
	s.log.Info("scraped", "rows", len(rows))
	return rows, nil
}

// ParseTable walks every table in the document and collects rows whose
// first cell names a tracked symbol. Column positions follow the source
// table layout; missing trailing cells become empty fields.
func ParseTable(doc string) []Row {
	var rows []Row
	for _, table := range tableRe.FindAllStringSubmatch(doc, -1) {
		for _, tr := range rowRe.FindAllStringSubmatch(table[1], -1) {
			cells := cellRe.FindAllStringSubmatch(tr[1], -1)
			if len(cells) == 0 {
				continue
			}
			texts := make([]string, len(cells))
			for i, c := range cells {
				texts[i] = stripTags(c[1])
			}
			if !targetSymbols[texts[0]] {
				continue
			}
			rows = append(rows, Row{
				Symbol:      texts[0],
				Description: cellAt(texts, 1),
				Last:        cellAt(texts, 2),
				Change:      cellAt(texts, 3),
				PctChange:   cellAt(texts, 4),
				Phase:       cellAt(texts, 11),
				FiveDay:     cellAt(texts, 12),
				ThreeMonth:  cellAt(texts, 13),
				SixMonth:    cellAt(texts, 14),
				YTD:         cellAt(texts, 15),
				TSI:         cellAt(texts, 16),
				RM50:        cellAt(texts, 17),
				RM10:        cellAt(texts, 18),
			})
		}
	}
	return rows
}

// stripTags removes HTML tags and normalizes whitespace.
func stripTags(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
