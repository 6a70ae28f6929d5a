package analyzer

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// reportTemplate is the daily HTML report. The page is right-to-left for
// the Hebrew narrative; the data table stays left-to-right.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="he" dir="rtl">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Market Analysis Report - {{.Date}}</title>
<style>
body { font-family: 'Segoe UI', Tahoma, sans-serif; background: #f0f2f5; padding: 20px; line-height: 1.6; }
.container { max-width: 1200px; margin: 0 auto; background: white; border-radius: 12px; box-shadow: 0 4px 16px rgba(0,0,0,0.15); overflow: hidden; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 24px; }
.header .date { opacity: 0.85; }
.section { padding: 24px; }
table.data { width: 100%; border-collapse: collapse; direction: ltr; }
table.data th, table.data td { padding: 8px 12px; border-bottom: 1px solid #e0e0e0; text-align: left; }
table.data th { background: #f7f7f9; }
.analysis { background: #f7f7f9; border-radius: 8px; padding: 16px; white-space: pre-wrap; }
.footer { padding: 16px 24px; color: #888; font-size: 0.85em; border-top: 1px solid #eee; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Market Analysis Report</h1>
    <div class="date">{{.Date}} &bull; {{.Time}}</div>
  </div>
  <div class="section">
    <h2>Market Data Overview</h2>
    <table class="data">
      <thead>
        <tr>
          <th>Symbol</th><th>Description</th><th>Last</th><th>Change</th>
          <th>5-Day</th><th>3-Month</th><th>6-Month</th><th>TSI</th>
          <th>Phase</th><th>RM50</th><th>RM10</th>
        </tr>
      </thead>
      <tbody>
      {{range .Rows}}
        <tr>
          <td>{{.Symbol}}</td><td>{{.Description}}</td><td>{{.Last}}</td><td>{{.Change}}</td>
          <td>{{.FiveDay}}</td><td>{{.ThreeMonth}}</td><td>{{.SixMonth}}</td><td>{{.TSI}}</td>
          <td>{{.Phase}}</td><td>{{.RM50}}</td><td>{{.RM10}}</td>
        </tr>
      {{end}}
      </tbody>
    </table>
  </div>
  <div class="section">
    <h2>AI Analysis</h2>
    <div class="analysis">{{.Analysis}}</div>
  </div>
  <div class="footer">
    <p>Generated automatically by the market analyzer.</p>
  </div>
</div>
</body>
</html>
`))

type reportData struct {
	Date     string
	Time     string
	Rows     []Row
	Analysis string
}

// RenderHTML writes the daily report to <outputDir>/Shazam-market-daily.html.
// An empty analysis renders a placeholder so the table still publishes when
// the LLM call failed.
func RenderHTML(rows []Row, analysis string, outputDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("analyzer: creating output dir: %w", err)
	}
	if analysis == "" {
		analysis = "Analysis not available."
	}

	path := filepath.Join(outputDir, "Shazam-market-daily.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("analyzer: creating report: %w", err)
	}
	defer f.Close()

	data := reportData{
		Date:     now.Format("2006-01-02"),
		Time:     now.UTC().Format("15:04:05 UTC"),
		Rows:     rows,
		Analysis: analysis,
	}
	if err := reportTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("analyzer: rendering report: %w", err)
	}
	return path, nil
}
