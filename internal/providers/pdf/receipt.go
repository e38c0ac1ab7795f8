package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func NewPDF() *PDFProvider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().Build()
	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, data.ClubName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Donation Receipt", props.Text{
			Size:  12,
			Align: align.Right,
			Top:   4,
		}),
	)

	m.AddRow(4, line.NewCol(12))

	m.AddRow(24,
		col.New(6).Add(
			text.New("Receipt no: "+data.ReceiptNumber, props.Text{Top: 2}),
			text.New("Date: "+data.Date, props.Text{Top: 8}),
			text.New("Collected by: "+data.CollectedBy, props.Text{Top: 14}),
		),
		col.New(6).Add(
			text.New("Received from", props.Text{Style: fontstyle.Bold, Top: 2}),
			text.New(data.DonorName, props.Text{Top: 8}),
		),
	)

	m.AddRow(16,
		text.NewCol(12, fmt.Sprintf("Amount: %s (%s)", data.Amount, data.Mode), props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   4,
		}),
	)

	if data.EventTitle != "" {
		m.AddRow(10, text.NewCol(12, "Towards: "+data.EventTitle, props.Text{Top: 2}))
	}
	if data.Note != "" {
		m.AddRow(10, text.NewCol(12, "Note: "+data.Note, props.Text{Top: 2}))
	}

	m.AddRow(12, text.NewCol(12, "Thank you for supporting "+data.ClubName+".", props.Text{
		Top:   4,
		Align: align.Center,
	}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate receipt pdf: %w", err)
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
