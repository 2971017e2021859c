package source

import (
	"context"
	"fmt"
	"time"

	"github.com/agropec/boletim/internal/invoice/domain"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// remoteSource pulls invoices from an upstream ERP endpoint. Every fetch is
// bounded by the configured timeout and honours the caller's context, so a
// stalled upstream never blocks a sync run indefinitely.
type remoteSource struct {
	client *resty.Client
	log    *zap.Logger
}

func NewRemoteSource(baseURL, token string, timeout time.Duration, log *zap.Logger) domain.Source {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	if token != "" {
		client.SetAuthToken(token)
	}
	return &remoteSource{
		client: client,
		log:    log.Named("invoice.source.remote"),
	}
}

func (s *remoteSource) FetchInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&invoices).
		Get("/invoices")
	if err != nil {
		return nil, fmt.Errorf("fetch invoices: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch invoices: upstream returned %s", resp.Status())
	}

	s.log.Debug("fetched invoices from upstream", zap.Int("count", len(invoices)))
	return invoices, nil
}
