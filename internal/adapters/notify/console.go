package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alejandrodnm/comexbot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Reporter y ports.AlertSink escribiendo a stdout.
type Console struct {
	out   io.Writer
	table bool // true = tablas completas, false = resumen compacto
	topN  int
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole(table bool, topN int) *Console {
	return &Console{out: os.Stdout, table: table, topN: topN}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, table bool, topN int) *Console {
	return &Console{out: w, table: table, topN: topN}
}

// Report imprime el reporte diario en el modo configurado.
func (c *Console) Report(_ context.Context, report domain.DailyReport) error {
	if len(report.Records) == 0 {
		fmt.Fprintf(c.out, "[%s] no quotes parsed\n", report.Date.Format("2006-01-02"))
		return nil
	}

	if c.table {
		c.printFull(report)
	} else {
		c.printCompact(report)
	}
	return nil
}

// Send imprime el alert en una línea (canal de consola para dry-run).
func (c *Console) Send(_ context.Context, alert domain.AlertEvent, recipient string) error {
	fmt.Fprintf(c.out, "[ALERT] %s (%s) %.2f %+.2f%% → %s\n",
		alert.Name, alert.Category, alert.Price, alert.PctDaily, recipient)
	return nil
}

// printCompact imprime lo esencial en pocas líneas.
func (c *Console) printCompact(r domain.DailyReport) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d quotes → leads:%d opps:%d",
		r.Date.Format("2006-01-02"), len(r.Records), len(r.StrongLeads), len(r.Opportunities))

	shown := 0
	for _, l := range r.StrongLeads {
		if shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | #%d %s (%s) %s%s",
			l.Ranking, l.Name, l.TimeframeLabel(), changeArrow(l.RankingChange), changeLabel(l.RankingChange))
		shown++
	}
	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime las tablas completas: top-N por ventana, strong leads
// con delta vs día anterior y oportunidades por horizonte.
func (c *Console) printFull(r domain.DailyReport) {
	fmt.Fprintf(c.out, "\n=== COMMODITIES %s (%d quotes) ===\n",
		r.Date.Format("2006-01-02"), len(r.Records))

	for _, tf := range domain.RankingTimeframes {
		c.printTopN(tf, r.Rankings[tf])
	}
	c.printStrongLeads(r)
	c.printOpportunities(r.Opportunities)
}

// printTopN imprime el top-N de cada categoría para una ventana.
func (c *Console) printTopN(tf domain.Timeframe, entries []domain.RankedEntry) {
	var top []domain.RankedEntry
	for _, e := range entries {
		if e.Rank <= c.topN {
			top = append(top, e)
		}
	}
	if len(top) == 0 {
		return
	}

	fmt.Fprintf(c.out, "\nTop %d %s performers by category:\n", c.topN, tf)

	table := tablewriter.NewWriter(c.out)
	table.Header("Category", "#", "Name", tf.String()+" %")
	for _, e := range top {
		table.Append(
			e.Category.String(),
			fmt.Sprintf("%d", e.Rank),
			e.Name,
			fmt.Sprintf("%+.2f", e.Pct),
		)
	}
	table.Render()
}

// printStrongLeads imprime los strong leads del día y los top movers.
func (c *Console) printStrongLeads(r domain.DailyReport) {
	if len(r.StrongLeads) == 0 {
		fmt.Fprintln(c.out, "\nNo strong leads today (nobody in top-K of ≥2 timeframes).")
		return
	}

	fmt.Fprintf(c.out, "\nStrong leads (top-K in ≥2 of D/W/M):\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Name", "Category", "TFs", "Price", "D%", "W%", "M%", "Δ")
	for _, l := range r.StrongLeads {
		table.Append(
			fmt.Sprintf("%d", l.Ranking),
			l.Name,
			l.Category.String(),
			l.TimeframeLabel(),
			fmt.Sprintf("%.2f", l.Price),
			pctLabel(l.PctDaily),
			pctLabel(l.PctWeekly),
			pctLabel(l.PctMonthly),
			changeLabel(l.RankingChange),
		)
	}
	table.Render()
	fmt.Fprintln(c.out, "  Δ = ranking ayer - hoy (positivo: subió; 'new': ayer no era lead)")

	movers := r.TopMovers(10)
	if len(movers) > 0 {
		fmt.Fprintln(c.out, "\n  Top movers vs previous snapshot:")
		for _, l := range movers {
			fmt.Fprintf(c.out, "    %s %s: %d → %d (%+d)\n",
				changeArrow(l.RankingChange), l.Name, *l.PreviousRanking, l.Ranking, *l.RankingChange)
		}
	}
}

// printOpportunities imprime cada bucket de horizonte por separado.
func (c *Console) printOpportunities(opps []domain.InvestmentOpportunity) {
	fmt.Fprintln(c.out, "\nInvestment opportunities by timeframe:")

	for _, h := range domain.Horizons {
		var bucket []domain.InvestmentOpportunity
		for _, o := range opps {
			if o.Horizon == h {
				bucket = append(bucket, o)
			}
		}

		fmt.Fprintf(c.out, "\n--- %s ---\n", strings.ToUpper(h.String()))
		if len(bucket) == 0 {
			fmt.Fprintln(c.out, "No opportunities found")
			continue
		}

		table := tablewriter.NewWriter(c.out)
		table.Header("#", "Name", "Category", "Momentum %", "Confirm %", "Horizons")
		for _, o := range bucket {
			table.Append(
				fmt.Sprintf("%d", o.Ranking),
				o.Name,
				o.Category.String(),
				fmt.Sprintf("%+.2f", o.PctPrimary),
				fmt.Sprintf("%+.2f", o.PctConfirm),
				strings.Join(o.SupportingHorizons, ", "),
			)
		}
		table.Render()
	}
}

// --- helpers ---

// changeLabel formatea el delta de ranking: "new" sin previo, "+2"/"-3"/"=".
func changeLabel(change *int) string {
	if change == nil {
		return "new"
	}
	if *change == 0 {
		return "="
	}
	return fmt.Sprintf("%+d", *change)
}

func changeArrow(change *int) string {
	switch {
	case change == nil:
		return "*"
	case *change > 0:
		return "^"
	case *change < 0:
		return "v"
	default:
		return "="
	}
}

func pctLabel(pct *float64) string {
	if pct == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f", *pct)
}
