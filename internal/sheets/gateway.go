// Package sheets wraps read, write, and append operations against a single
// Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// valueInputOption makes the API parse cell values the way typed input is
// parsed (dates stay dates, not raw strings).
const valueInputOption = "USER_ENTERED"

// Gateway performs row operations against one spreadsheet. The bearer token
// is read from the session's token source on every outgoing call.
type Gateway struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	logger        *slog.Logger
}

// New creates a Gateway for the given spreadsheet using the session token
// source.
func New(ctx context.Context, ts oauth2.TokenSource, spreadsheetID string, logger *slog.Logger) (*Gateway, error) {
	httpClient := oauth2.NewClient(ctx, ts)
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{svc: svc, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// SpreadsheetID returns the addressed spreadsheet identifier.
func (g *Gateway) SpreadsheetID() string { return g.spreadsheetID }

// ReadRange fetches rows from tab within rng (e.g. "A2:E"). Cells arrive as
// strings; short rows are returned as-is, callers pad.
func (g *Gateway) ReadRange(ctx context.Context, tab, rng string) ([][]string, error) {
	addr := rangeAddr(tab, rng)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, addr).Context(ctx).Do()
	if err != nil {
		g.logger.Debug("read failed", "range", addr, "err", err)
		return nil, classify(tab, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}
	g.logger.Debug("read range", "range", addr, "rows", len(rows))
	return rows, nil
}

// WriteCell updates a single cell, addressed by 1-based sheet row and column
// letter. Best-effort: callers apply optimistic local state first and do not
// roll it back on failure.
func (g *Gateway) WriteCell(ctx context.Context, tab string, row int, column, value string) error {
	addr := fmt.Sprintf("%s!%s%d", quoteTab(tab), column, row)
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, addr, vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		g.logger.Debug("write failed", "range", addr, "err", err)
		return classify(tab, err)
	}
	g.logger.Debug("wrote cell", "range", addr)
	return nil
}

// AppendRows inserts rows after the last data row of the addressed range in
// one call.
func (g *Gateway) AppendRows(ctx context.Context, tab, rng string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}
	addr := rangeAddr(tab, rng)
	vr := &sheetsapi.ValueRange{Values: values}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, addr, vr).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		g.logger.Debug("append failed", "range", addr, "rows", len(rows), "err", err)
		return classify(tab, err)
	}
	g.logger.Debug("appended rows", "range", addr, "rows", len(rows))
	return nil
}

func rangeAddr(tab, rng string) string {
	return quoteTab(tab) + "!" + rng
}

// quoteTab protects tab names containing spaces or other range syntax. The
// tab name must match the task's display name exactly, so quoting must not
// alter it.
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}
