package spreadsheet

import (
	"fmt"
	"io"
	"pricewise/domain"

	"github.com/xuri/excelize/v2"
)

const ResultsSheet = "Results"

var resultColumns = []string{
	"Row",
	ColQuantity, ColUnitPrice, ColCategory, ColDemand,
	ColMonth, ColDay, ColHour, ColWeekday,
	"Discount %",
	"Base Revenue",
	"Discounted Unit Price",
	"Revenue After Discount",
	"Revenue Delta",
	"Outlook",
	"Error",
}

// WriteResults writes one row per outcome, in order, to a new workbook.
// Failed rows keep their inputs (when readable) and carry the error text.
func WriteResults(w io.Writer, outcomes []domain.BatchOutcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(resultColumns))
	for i, c := range resultColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, out := range outcomes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := resultRow(out)
		if err := f.SetSheetRow(ResultsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", out.Row, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func resultRow(out domain.BatchOutcome) []interface{} {
	values := []interface{}{out.Row}

	if out.Scenario.Err != nil {
		values = append(values, "", "", "", "", "", "", "", "")
	} else {
		in := out.Input
		values = append(values,
			in.Quantity, in.UnitPrice,
			in.PriceCategory.String(), in.DemandLevel.String(),
			in.Month, in.DayOfMonth, in.Hour,
			in.DayOfWeek.String(),
		)
	}

	if s := out.Strategy; s != nil {
		return append(values,
			s.DiscountPercent,
			s.Metrics.BaseRevenue,
			s.Metrics.DiscountedUnitPrice,
			s.Metrics.RevenueAfterDiscount,
			s.Metrics.RevenueDelta,
			s.Message,
			"",
		)
	}

	errText := ""
	if err := out.Failure(); err != nil {
		errText = err.Error()
	}
	return append(values, "", "", "", "", "", "", errText)
}
