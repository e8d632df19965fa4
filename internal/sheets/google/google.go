// Package google writes sales reports into a Google Sheets spreadsheet,
// one new tab per report.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"saletrack/internal/core"
	"saletrack/internal/report"
	ports "saletrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config selects the spreadsheet and the service account used to reach it.
type Config struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ ports.ReportWriter = (*Client)(nil)

// New creates a Sheets client from service account credentials. When neither
// credential field is set, GOOGLE_APPLICATION_CREDENTIALS is used.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID string) *Client {
	return &Client{svc: svc, spreadsheetID: strings.TrimSpace(spreadsheetID)}
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		var err error
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteReport adds a tab named after the report range, fills it with the
// report grid and formats it. It returns the A1 reference of the written block.
func (c *Client) WriteReport(ctx context.Context, r report.Report) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	existing, err := c.sheetTitles(ctx)
	if err != nil {
		return "", err
	}
	title := uniqueTitle(TabTitle(r.Range), existing)

	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("add sheet %q: %w", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return "", fmt.Errorf("add sheet %q: empty reply", title)
	}
	sheetID := resp.Replies[0].AddSheet.Properties.SheetId

	g := report.Layout(r)
	values := gridValues(g)
	ref := fmt.Sprintf("'%s'!A1:%s%d", title, columnLetter(g.Columns()), len(values))

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, ref, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write values to %s: %w", ref, err)
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: formatRequests(g, sheetID),
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("format sheet %q: %w", title, err)
	}

	slog.InfoContext(ctx, "Report written to Google Sheets",
		"sheet", title,
		"rows", len(values),
		"transactions", len(r.Transactions))
	return ref, nil
}

func (c *Client) sheetTitles(ctx context.Context) (map[string]bool, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", c.spreadsheetID, err)
	}
	titles := map[string]bool{}
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles[s.Properties.Title] = true
		}
	}
	return titles, nil
}

// TabTitle names the tab a report is written to.
func TabTitle(rng report.DateRange) string {
	return fmt.Sprintf("Sales %s to %s", rng.Start, rng.End)
}

func uniqueTitle(base string, existing map[string]bool) string {
	if !existing[base] {
		return base
	}
	for i := 2; ; i++ {
		t := fmt.Sprintf("%s (%d)", base, i)
		if !existing[t] {
			return t
		}
	}
}

func gridValues(g report.Grid) [][]any {
	values := make([][]any, len(g.Rows))
	for i, row := range g.Rows {
		vals := make([]any, len(row.Cells))
		for j, c := range row.Cells {
			switch v := c.Value.(type) {
			case core.Money:
				vals[j] = v.Float64()
			case nil:
				vals[j] = ""
			default:
				vals[j] = v
			}
		}
		values[i] = vals
	}
	return values
}

func formatRequests(g report.Grid, sheetID int64) []*gsheet.Request {
	cols := int64(g.Columns())
	var reqs []*gsheet.Request

	for i, w := range g.Widths {
		reqs = append(reqs, &gsheet.Request{
			UpdateDimensionProperties: &gsheet.UpdateDimensionPropertiesRequest{
				Range: &gsheet.DimensionRange{
					SheetId: sheetID, Dimension: "COLUMNS",
					StartIndex: int64(i), EndIndex: int64(i + 1),
				},
				// Spreadsheet column widths are in characters, Sheets wants pixels.
				Properties: &gsheet.DimensionProperties{PixelSize: int64(w * 7)},
				Fields:     "pixelSize",
			},
		})
	}

	moneyFmt := &gsheet.NumberFormat{Type: "NUMBER", Pattern: "#,##0.00"}
	if g.Currency != "" {
		moneyFmt.Pattern = `"` + g.Currency + `" #,##0.00`
	}

	for i, row := range g.Rows {
		r := int64(i)
		if row.Merged {
			reqs = append(reqs, &gsheet.Request{
				MergeCells: &gsheet.MergeCellsRequest{
					Range:     &gsheet.GridRange{SheetId: sheetID, StartRowIndex: r, EndRowIndex: r + 1, StartColumnIndex: 0, EndColumnIndex: cols},
					MergeType: "MERGE_ALL",
				},
			})
		}
		for j, c := range row.Cells {
			format, fields := cellFormat(c, moneyFmt)
			if format == nil {
				continue
			}
			col := int64(j)
			reqs = append(reqs, &gsheet.Request{
				RepeatCell: &gsheet.RepeatCellRequest{
					Range:  &gsheet.GridRange{SheetId: sheetID, StartRowIndex: r, EndRowIndex: r + 1, StartColumnIndex: col, EndColumnIndex: col + 1},
					Cell:   &gsheet.CellData{UserEnteredFormat: format},
					Fields: fields,
				},
			})
		}
	}
	return reqs
}

func cellFormat(c report.Cell, moneyFmt *gsheet.NumberFormat) (*gsheet.CellFormat, string) {
	_, isMoney := c.Value.(core.Money)
	var f gsheet.CellFormat
	var fields []string

	switch c.Style {
	case report.StyleTitle:
		f.TextFormat = &gsheet.TextFormat{Bold: true, FontSize: 18}
		f.HorizontalAlignment = "CENTER"
	case report.StyleSubtitle:
		f.TextFormat = &gsheet.TextFormat{Bold: true, FontSize: 14}
		f.HorizontalAlignment = "CENTER"
	case report.StyleRange:
		f.TextFormat = &gsheet.TextFormat{FontSize: 12}
		f.HorizontalAlignment = "CENTER"
	case report.StyleSection:
		f.TextFormat = &gsheet.TextFormat{Bold: true, FontSize: 12}
	case report.StyleStrong:
		f.TextFormat = &gsheet.TextFormat{Bold: true}
	case report.StyleHeader:
		f.TextFormat = &gsheet.TextFormat{Bold: true}
		f.BackgroundColor = &gsheet.Color{Red: 224.0 / 255, Green: 224.0 / 255, Blue: 224.0 / 255}
		f.Borders = &gsheet.Borders{Bottom: &gsheet.Border{Style: "SOLID"}}
		fields = append(fields, "userEnteredFormat.backgroundColor", "userEnteredFormat.borders")
	}
	if f.TextFormat != nil {
		fields = append(fields, "userEnteredFormat.textFormat")
	}
	if f.HorizontalAlignment != "" {
		fields = append(fields, "userEnteredFormat.horizontalAlignment")
	}
	if isMoney {
		f.NumberFormat = moneyFmt
		fields = append(fields, "userEnteredFormat.numberFormat")
	}
	if len(fields) == 0 {
		return nil, ""
	}
	return &f, strings.Join(fields, ",")
}

func columnLetter(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
