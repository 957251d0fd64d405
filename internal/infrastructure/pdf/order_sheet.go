// Package pdf renders the printable purchase-order sheet with Maroto v2.
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

	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 163, Green: 31, Blue: 52} // MIT cardinal
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.OrderSheetRenderer = (*OrderSheetRenderer)(nil)

// OrderSheetRenderer implements ports.OrderSheetRenderer using Maroto v2.
type OrderSheetRenderer struct {
	teamName string
}

// NewOrderSheetRenderer builds the renderer. teamName shows in the header.
func NewOrderSheetRenderer(teamName string) *OrderSheetRenderer {
	return &OrderSheetRenderer{teamName: teamName}
}

// Render generates the order sheet and returns its bytes.
func (g *OrderSheetRenderer) Render(p *entity.Purchase) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Purchase Order "+p.ID, true).
		WithAuthor(g.teamName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requesterRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(itemRows(p)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(p))
	m.AddRows(statusRow(p))

	if p.Notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Notes: "+p.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate order sheet: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: team name (left), order id + date (right).
func (g *OrderSheetRenderer) headerRow(p *entity.Purchase) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.teamName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Purchase Order Sheet", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDER "+shortID(p.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New("Created: "+p.CreatedAt.Format("01/02/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func requesterRow(p *entity.Purchase) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("REQUESTER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(p.RequesterName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Email: %s   |   Subteam: %s   |   Subproject: %s",
				p.RequesterEmail, p.Subteam, nonEmpty(p.Subproject, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func itemRows(p *entity.Purchase) []core.Row {
	header := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return []core.Row{
		row.New(8).Add(
			header("Qty", 1, align.Center),
			header("Item", 5, align.Left),
			header("Vendor", 3, align.Left),
			header("Unit Price", 3, align.Right),
		),
		row.New(8).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", p.Quantity),
				props.Text{Size: 9, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(p.ItemName,
				props.Text{Size: 9, Align: align.Left, Top: 1})),
			col.New(3).Add(text.New(p.VendorName,
				props.Text{Size: 9, Align: align.Left, Top: 1})),
			col.New(3).Add(text.New("$"+p.Price.StringFixed(2),
				props.Text{Size: 9, Align: align.Right, Top: 1})),
		),
	}
}

func totalsRow(p *entity.Purchase) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Shipping:"),
			label("TOTAL:"),
		),
		col.New(3).Add(
			value("$"+p.ShippingCost.StringFixed(2)),
			value("$"+p.TotalCost().StringFixed(2)),
		),
	)
}

func statusRow(p *entity.Purchase) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("STATUS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Approval: %s   |   Fulfillment: %s   |   Urgency: %s",
				p.ApprovalStatus, p.FulfillmentStatus, p.Urgency,
			), props.Text{Size: 9, Top: 7}),
		),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
