package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments for the approval workflow.
type Metrics struct {
	recordsSubmitted   metric.Int64Counter
	recordsReviewed    metric.Int64Counter
	recordsResubmitted metric.Int64Counter
	invitesSent        metric.Int64Counter
	invitesCompensated metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "clubkosh"
	}
	meter := provider.Meter(name)

	recordsSubmitted, err := meter.Int64Counter("clubkosh_records_submitted_total")
	if err != nil {
		return nil, err
	}
	recordsReviewed, err := meter.Int64Counter("clubkosh_records_reviewed_total")
	if err != nil {
		return nil, err
	}
	recordsResubmitted, err := meter.Int64Counter("clubkosh_records_resubmitted_total")
	if err != nil {
		return nil, err
	}
	invitesSent, err := meter.Int64Counter("clubkosh_invites_sent_total")
	if err != nil {
		return nil, err
	}
	invitesCompensated, err := meter.Int64Counter("clubkosh_invites_compensated_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		recordsSubmitted:   recordsSubmitted,
		recordsReviewed:    recordsReviewed,
		recordsResubmitted: recordsResubmitted,
		invitesSent:        invitesSent,
		invitesCompensated: invitesCompensated,
	}, nil
}

// RecordSubmitted counts a new donation or expense entering the workflow.
func (m *Metrics) RecordSubmitted(ctx context.Context, recordType, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("record_type", strings.TrimSpace(recordType)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.recordsSubmitted.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordReviewed counts an approve or reject decision.
func (m *Metrics) RecordReviewed(ctx context.Context, recordType, decision string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("record_type", strings.TrimSpace(recordType)),
		attribute.String("decision", strings.TrimSpace(decision)),
	)
	m.recordsReviewed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordResubmitted counts an owner resubmission of a rejected record.
func (m *Metrics) RecordResubmitted(ctx context.Context, recordType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("record_type", strings.TrimSpace(recordType)))
	m.recordsResubmitted.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInviteSent counts a successfully delivered invitation.
func (m *Metrics) RecordInviteSent(ctx context.Context, role string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("role", strings.TrimSpace(role)))
	m.invitesSent.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInviteCompensated counts an invitation rolled back after a failed send.
func (m *Metrics) RecordInviteCompensated(ctx context.Context, role string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("role", strings.TrimSpace(role)))
	m.invitesCompensated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"record_type": {},
	"status":      {},
	"decision":    {},
	"role":        {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
