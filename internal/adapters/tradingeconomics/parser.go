package tradingeconomics

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alejandrodnm/comexbot/internal/domain"
)

// Parse extrae los QuoteRecord de la página de commodities. La tabla alterna
// filas <th> de categoría (Energy, Metals, ...) con filas <td> de datos; la
// categoría vigente aplica a las filas que siguen. Devuelve también cuántas
// filas se saltaron por malformadas — el batch nunca aborta por una fila.
func Parse(r io.Reader, date time.Time) ([]domain.QuoteRecord, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("tradingeconomics.Parse: %w", err)
	}

	var (
		records  []domain.QuoteRecord
		skipped  int
		category domain.Category
		haveCat  bool
	)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if th := row.Find("th").First(); th.Length() > 0 {
			// Header de categoría o header de columnas ("Price", "Day", ...);
			// solo el primero cambia la categoría vigente.
			if cat, ok := domain.ParseCategory(strings.TrimSpace(th.Text())); ok {
				category, haveCat = cat, true
			}
			return
		}

		cells := row.Find("td")
		if cells.Length() < 8 {
			return // fila decorativa o incompleta, no es un commodity
		}

		if !haveCat {
			slog.Warn("quote row before any category header, skipping")
			skipped++
			return
		}

		q, err := parseRow(cells, category, date)
		if err != nil {
			slog.Warn("malformed quote row, skipping", "err", err)
			skipped++
			return
		}
		records = append(records, q)
	})

	return records, skipped, nil
}

// parseRow convierte las celdas de una fila en un QuoteRecord.
// Layout: name+unit | price | change | day% | week% | month% | year% | 3y%
func parseRow(cells *goquery.Selection, category domain.Category, date time.Time) (domain.QuoteRecord, error) {
	name, unit := splitNameUnit(cells.Eq(0))
	if name == "" {
		return domain.QuoteRecord{}, fmt.Errorf("empty commodity name")
	}

	price, err := parseNumber(cells.Eq(1).Text())
	if err != nil {
		return domain.QuoteRecord{}, fmt.Errorf("%s: price: %w", name, err)
	}

	// El cambio absoluto a veces falta; 0 es un default aceptable porque
	// nunca participa en rankings.
	change, err := parseNumber(cells.Eq(2).Text())
	if err != nil {
		change = 0
	}

	return domain.QuoteRecord{
		Category:   category,
		Name:       name,
		Unit:       unit,
		Price:      price,
		Change:     change,
		PctDaily:   parsePct(cells.Eq(3).Text()),
		PctWeekly:  parsePct(cells.Eq(4).Text()),
		PctMonthly: parsePct(cells.Eq(5).Text()),
		PctYearly:  parsePct(cells.Eq(6).Text()),
		Pct3Year:   parsePct(cells.Eq(7).Text()),
		Date:       date,
	}, nil
}

// splitNameUnit separa nombre y unidad de la primera celda. En la página el
// nombre va en <b> y la unidad en un <div> aparte; si no, se parte el texto
// por el último espacio ("Crude Oil USD/Bbl").
func splitNameUnit(cell *goquery.Selection) (name, unit string) {
	name = strings.TrimSpace(cell.Find("b").First().Text())
	unit = strings.TrimSpace(cell.Find("div").First().Text())
	if name != "" {
		return name, unit
	}

	text := strings.Join(strings.Fields(cell.Text()), " ")
	if idx := strings.LastIndex(text, " "); idx > 0 {
		return text[:idx], text[idx+1:]
	}
	return text, ""
}

// parseNumber parsea un valor numérico tolerando comas de miles.
func parseNumber(text string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("empty number")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, err)
	}
	return v, nil
}

// parsePct parsea un porcentaje. Celda vacía o "-" significa "sin dato"
// y devuelve nil — nunca 0, que haría rankear el hueco como 0%.
func parsePct(text string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "%", ""))
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}
