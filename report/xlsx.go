package report

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradegym/journal"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	tradesSheet  = "Trades"
	equitySheet  = "Equity"
)

// WriteXLSX writes one episode to an Excel workbook with Summary, Trades
// and Equity sheets.
func WriteXLSX(path string, ep journal.EpisodeRecord, trades []journal.TradeRecord, equity []journal.EquitySnapshot) error {
	fx := excelize.NewFile()
	defer fx.Close()

	// Replace default sheet
	if err := fx.SetSheetName(fx.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	for _, name := range []string{tradesSheet, equitySheet} {
		if _, err := fx.NewSheet(name); err != nil {
			return err
		}
	}

	headStyle, err := fx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := [][]any{
		{"Episode", ep.ID},
		{"Policy", ep.Policy},
		{"Dataset", ep.Dataset},
		{"Started", formatTime(ep.StartedAt)},
		{"Finished", formatTime(ep.FinishedAt)},
		{"Steps", ep.Steps},
		{"Total Reward", ep.TotalReward},
		{"Total Return", ep.TotalReturn},
		{"Sharpe Ratio", ep.Sharpe},
		{"Max Drawdown", ep.MaxDrawdown},
		{"Win Rate", ep.WinRate},
		{"Trades", ep.Trades},
		{"Wins", ep.Wins},
		{"Initial Balance", ep.InitialBalance},
		{"Final Balance", ep.FinalBalance},
	}
	for i, row := range summary {
		if err := writeRow(fx, summarySheet, i+1, row); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := fx.SetCellStyle(summarySheet, cell, cell, headStyle); err != nil {
			return err
		}
	}

	tradeHeaders := []any{"Trade ID", "Step", "Side", "Position", "Entry price", "Exit price", "Realized PnL", "Closed at"}
	if err := writeHeader(fx, tradesSheet, tradeHeaders, headStyle); err != nil {
		return err
	}
	for i, t := range trades {
		row := []any{t.TradeID, t.Step, t.Side, t.Position, t.EntryPrice, t.ExitPrice, t.RealizedPnL, formatTime(t.ClosedAt)}
		if err := writeRow(fx, tradesSheet, i+2, row); err != nil {
			return err
		}
	}

	equityHeaders := []any{"Step", "Time", "Price", "Balance", "Position", "Total PnL", "Reward"}
	if err := writeHeader(fx, equitySheet, equityHeaders, headStyle); err != nil {
		return err
	}
	for i, e := range equity {
		row := []any{e.Step, formatTime(e.Time), e.Price, e.Balance, e.Position, e.TotalPnL, e.Reward}
		if err := writeRow(fx, equitySheet, i+2, row); err != nil {
			return err
		}
	}

	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeHeader(fx *excelize.File, sheet string, headers []any, style int) error {
	if err := writeRow(fx, sheet, 1, headers); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return fx.SetCellStyle(sheet, first, last, style)
}

func writeRow(fx *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return fx.SetSheetRow(sheet, cell, &values)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
