// Package pdf renders count-sheet reports with Maroto v2.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: sheet name + status   │  created / completed dates │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUMMARY: positions / counted / surplus / shortage          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Produkt | Jm | Oczekiwano | Policzono | Różnica |   │
//	│         Status                                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorSurplus  = &props.Color{Red: 0, Green: 120, Blue: 40}
	colorShortage = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// StocktakeReportGenerator renders count sheets using Maroto v2.
type StocktakeReportGenerator struct{}

// NewStocktakeReportGenerator builds the generator.
func NewStocktakeReportGenerator() *StocktakeReportGenerator { return &StocktakeReportGenerator{} }

// GenerateStocktakeReport renders the sheet and returns the PDF bytes.
func (g *StocktakeReportGenerator) GenerateStocktakeReport(inv *entity.Inventory) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Raport inwentaryzacji", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(inv.Items) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: sheet name + status label on the left, dates on the right.
func headerRow(inv *entity.Inventory) core.Row {
	completed := "—"
	if inv.CompletedAt != nil {
		completed = inv.CompletedAt.Format("02.01.2006 15:04")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(inv.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Status: "+statusLabel(inv.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RAPORT INWENTARYZACJI", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Utworzono: "+inv.CreatedAt.Format("02.01.2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Zakończono: "+completed, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// summaryRow: position counts broken down by count outcome.
func summaryRow(inv *entity.Inventory) core.Row {
	var counted, surplus, shortage int
	for _, it := range inv.Items {
		diff := it.Difference()
		if diff == nil {
			continue
		}
		counted++
		switch {
		case diff.IsPositive():
			surplus++
		case diff.IsNegative():
			shortage++
		}
	}

	cell := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Color: color, Top: 5}),
		)
	}
	return row.New(12).Add(
		cell("Pozycje", fmt.Sprintf("%d", len(inv.Items)), colorPrimary),
		cell("Policzone", fmt.Sprintf("%d", counted), colorPrimary),
		cell("Nadwyżki", fmt.Sprintf("%d", surplus), colorSurplus),
		cell("Niedobory", fmt.Sprintf("%d", shortage), colorShortage),
	)
}

// tableHeaderRow: column headings for the item table.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Produkt", 4, align.Left),
		h("Jm", 1, align.Center),
		h("Oczekiwano", 2, align.Right),
		h("Policzono", 2, align.Right),
		h("Różnica", 1, align.Right),
		h("Status", 2, align.Center),
	)
}

// tableItemRows: one row per sheet position.
func tableItemRows(items []entity.InventoryItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		countedStr := "—"
		diffStr := "—"
		statusColor := colorGray
		if it.Counted != nil {
			countedStr = it.Counted.StringFixed(2)
			diff := it.Difference()
			diffStr = diff.StringFixed(2)
			switch {
			case diff.IsPositive():
				diffStr = "+" + diffStr
				statusColor = colorSurplus
			case diff.IsNegative():
				statusColor = colorShortage
			case diff.IsZero():
				statusColor = colorPrimary
			}
		}

		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				it.Expected.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				countedStr,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				diffStr,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				it.StatusLabel(),
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: statusColor},
			)),
		))
	}
	return result
}

// statusLabel translates a sheet status to the report language.
func statusLabel(status string) string {
	switch status {
	case entity.InventoryStatusDraft:
		return "Szkic"
	case entity.InventoryStatusInProgress:
		return "W trakcie"
	case entity.InventoryStatusCompleted:
		return "Zakończona"
	}
	return status
}
