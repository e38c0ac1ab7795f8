package pdf

import (
	"context"
	"io"
)

// ReceiptData is everything printed on a donation receipt. Amount is
// preformatted by the caller so this package stays ignorant of currency
// handling.
type ReceiptData struct {
	ClubName      string
	ReceiptNumber string
	DonorName     string
	Amount        string
	Mode          string
	CollectedBy   string
	Date          string
	EventTitle    string
	Note          string
}

type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	return nil, nil
}
