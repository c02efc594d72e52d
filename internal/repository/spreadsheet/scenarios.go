// Package spreadsheet reads batch pricing scenarios from xlsx workbooks and
// writes the scored results back out.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"pricewise/domain"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	ColQuantity  = "Quantity"
	ColUnitPrice = "Unit Price"
	ColCategory  = "Category"
	ColDemand    = "Demand"
	ColMonth     = "Month"
	ColDay       = "Day"
	ColHour      = "Hour"
	ColWeekday   = "Weekday"
)

// InputColumns is the header a scenario sheet is expected to carry.
var InputColumns = []string{
	ColQuantity, ColUnitPrice, ColCategory, ColDemand,
	ColMonth, ColDay, ColHour, ColWeekday,
}

var (
	ErrEmptySheet    = errors.New("sheet has no header row")
	ErrMissingColumn = errors.New("missing column")
)

// aliases maps normalized header text to a column. The json field names of
// domain.InputRecord are accepted too.
var aliases = map[string]string{
	"quantity":      ColQuantity,
	"unitprice":     ColUnitPrice,
	"category":      ColCategory,
	"pricecategory": ColCategory,
	"demand":        ColDemand,
	"demandlevel":   ColDemand,
	"month":         ColMonth,
	"day":           ColDay,
	"dayofmonth":    ColDay,
	"hour":          ColHour,
	"weekday":       ColWeekday,
	"dayofweek":     ColWeekday,
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

// ReadScenarios parses the first sheet of an xlsx workbook. A row that
// cannot be read keeps its error in Scenario.Err; blank rows are skipped.
// Row numbers are 1-based as shown in a spreadsheet application.
func ReadScenarios(r io.Reader) ([]domain.Scenario, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	index := make(map[string]int, len(InputColumns))
	for i, h := range rows[0] {
		if col, ok := aliases[normalizeHeader(h)]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	for _, col := range InputColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	scenarios := make([]domain.Scenario, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		cells := rowCells{row: row, index: index}
		in, err := cells.input()
		scenarios = append(scenarios, domain.Scenario{Row: i + 2, Input: in, Err: err})
	}

	return scenarios, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type rowCells struct {
	row   []string
	index map[string]int
}

func (c rowCells) text(col string) string {
	i := c.index[col]
	if i >= len(c.row) {
		return ""
	}
	return strings.TrimSpace(c.row[i])
}

func (c rowCells) required(col string) (string, error) {
	v := c.text(col)
	if v == "" {
		return "", &domain.ValidationError{Field: col, Message: col + " is required"}
	}
	return v, nil
}

func (c rowCells) number(col string) (float64, error) {
	v, err := c.required(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: col, Message: fmt.Sprintf("%s must be a number, got %q", col, v)}
	}
	return n, nil
}

func (c rowCells) integer(col string) (int, error) {
	n, err := c.number(col)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || math.IsInf(n, 0) {
		return 0, &domain.ValidationError{Field: col, Message: col + " must be a whole number"}
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, &domain.ValidationError{Field: col, Message: col + " is out of range"}
	}
	return int(n), nil
}

func (c rowCells) input() (domain.InputRecord, error) {
	var (
		labeled domain.LabeledInput
		err     error
	)

	if labeled.Quantity, err = c.integer(ColQuantity); err != nil {
		return domain.InputRecord{}, err
	}
	if labeled.UnitPrice, err = c.number(ColUnitPrice); err != nil {
		return domain.InputRecord{}, err
	}
	if labeled.PriceCategory, err = c.required(ColCategory); err != nil {
		return domain.InputRecord{}, err
	}
	if labeled.DemandLevel, err = c.required(ColDemand); err != nil {
		return domain.InputRecord{}, err
	}
	if labeled.Month, err = c.integer(ColMonth); err != nil {
		return domain.InputRecord{}, err
	}
	if labeled.DayOfMonth, err = c.integer(ColDay); err != nil {
		return domain.InputRecord{}, err
	}
	if labeled.Hour, err = c.integer(ColHour); err != nil {
		return domain.InputRecord{}, err
	}
	if labeled.DayOfWeek, err = c.required(ColWeekday); err != nil {
		return domain.InputRecord{}, err
	}

	return labeled.Resolve()
}
