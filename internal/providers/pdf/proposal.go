package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ProposalData is the flattened, already formatted view the renderer
// consumes. All money fields arrive as display strings; the renderer does
// no arithmetic.
type ProposalData struct {
	OrgName  string
	OrgEmail string
	OrgPhone string

	Code       string
	Title      string
	IssueDate  string
	ValidUntil string

	ClientName  string
	ClientEmail string
	ClientPhone string

	SiteAddress string

	// ShowOnlyTotal hides per-line values and the item table body, leaving
	// only descriptions and the grand total.
	ShowOnlyTotal bool
	Items         []ProposalItem

	Subtotal string
	Discount string
	Total    string

	Sections []ProposalSection
}

type ProposalItem struct {
	Description string
	Value       string
}

// ProposalSection is a titled closing-text block (objective, scope,
// exclusions and so on). Empty sections are skipped by the caller.
type ProposalSection struct {
	Title string
	Body  string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateProposal(ctx context.Context, data ProposalData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, data.OrgName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(8,
		col.New(12).Add(
			text.New(data.OrgEmail, props.Text{Size: 9}),
			text.New(data.OrgPhone, props.Text{Size: 9, Top: 4}),
		),
	)

	m.AddRow(12,
		text.NewCol(12, "Proposal "+data.Code, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   2,
		}),
	)
	if data.Title != "" {
		m.AddRow(8,
			text.NewCol(12, data.Title, props.Text{Size: 11}),
		)
	}

	m.AddRow(18,
		col.New(6).Add(
			text.New("Prepared for", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(data.ClientName, props.Text{Size: 9, Top: 4}),
			text.New(data.ClientEmail, props.Text{Size: 9, Top: 8}),
			text.New(data.ClientPhone, props.Text{Size: 9, Top: 12}),
		),
		col.New(6).Add(
			text.New("Issued: "+data.IssueDate, props.Text{Size: 9}),
			text.New("Valid until: "+data.ValidUntil, props.Text{Size: 9, Top: 4}),
		),
	)

	if data.SiteAddress != "" {
		m.AddRow(12,
			col.New(12).Add(
				text.New("Work site", props.Text{Style: fontstyle.Bold, Size: 9}),
				text.New(data.SiteAddress, props.Text{Size: 9, Top: 4}),
			),
		)
	}

	if data.ShowOnlyTotal {
		for _, item := range data.Items {
			m.AddRow(8,
				text.NewCol(12, item.Description, props.Text{Size: 9}),
			)
		}
	} else {
		m.AddRow(10,
			text.NewCol(9, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(3, "Value", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, item := range data.Items {
			m.AddRow(8,
				text.NewCol(9, item.Description, props.Text{Size: 9}),
				text.NewCol(3, item.Value, props.Text{Size: 9, Align: align.Right}),
			)
		}
		m.AddRow(8,
			col.New(7),
			text.NewCol(3, "Subtotal", props.Text{Size: 9}),
			text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
		)
		m.AddRow(8,
			col.New(7),
			text.NewCol(3, "Discount", props.Text{Size: 9}),
			text.NewCol(2, data.Discount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(7),
		text.NewCol(3, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, data.Total, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	for _, section := range data.Sections {
		m.AddRow(8,
			text.NewCol(12, section.Title, props.Text{Style: fontstyle.Bold, Size: 10, Top: 3}),
		)
		m.AddRow(14,
			text.NewCol(12, section.Body, props.Text{Size: 9}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
