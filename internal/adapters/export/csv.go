package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alejandrodnm/comexbot/internal/domain"
)

// WriteCSV escribe el batch del día en formato CSV, una fila por commodity.
func WriteCSV(w io.Writer, records []domain.QuoteRecord) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Category", "Name", "Unit", "Price", "Change",
		"Daily %", "Weekly %", "Monthly %", "Yearly %", "3-Year %", "Date",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export.WriteCSV: header: %w", err)
	}

	for _, q := range records {
		row := []string{
			q.Category.String(),
			q.Name,
			q.Unit,
			strconv.FormatFloat(q.Price, 'f', -1, 64),
			strconv.FormatFloat(q.Change, 'f', -1, 64),
			pctField(q.PctDaily),
			pctField(q.PctWeekly),
			pctField(q.PctMonthly),
			pctField(q.PctYearly),
			pctField(q.Pct3Year),
			q.Date.Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export.WriteCSV: row %s: %w", q.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToFile escribe el CSV en la ruta dada.
func ToFile(path string, records []domain.QuoteRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export.ToFile: create %q: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// pctField deja la celda vacía cuando no hay dato, igual que la fuente.
func pctField(pct *float64) string {
	if pct == nil {
		return ""
	}
	return strconv.FormatFloat(*pct, 'f', 2, 64)
}
