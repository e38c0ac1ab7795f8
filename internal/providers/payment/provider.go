package payment

import "context"

// Provider hands out the page donors are pointed at to send money. Only a
// static configured page is supported; the club reconciles transfers by hand
// when members record the donation.
type Provider interface {
	PaymentLink(ctx context.Context) (string, bool)
}

type StaticLinkProvider struct {
	url string
}

func NewStaticLink(url string) *StaticLinkProvider {
	return &StaticLinkProvider{url: url}
}

func (p *StaticLinkProvider) PaymentLink(ctx context.Context) (string, bool) {
	if p.url == "" {
		return "", false
	}
	return p.url, true
}
