package queue

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// ReportServed is emitted after a report response has been written.
type ReportServed struct {
	Report     string    `json:"report"`
	Branch     string    `json:"branch"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Rows       int       `json:"rows"`
	RequestID  string    `json:"requestId,omitempty"`
	DurationMs int64     `json:"durationMs"`
	ServedAt   time.Time `json:"servedAt"`
}

type jsonPublisher interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, payload any) error
}

// Publisher sends report events. A nil *Publisher drops every event.
type Publisher struct {
	client   jsonPublisher
	exchange string
	logger   *zap.Logger
}

func NewPublisher(client jsonPublisher, exchange string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, exchange: exchange, logger: logger}
}

func RoutingKey(report string) string {
	return "report.served." + report
}

// ReportServed publishes the event. Failures are logged and never returned;
// the report has already been delivered by then.
func (p *Publisher) ReportServed(ctx context.Context, event ReportServed) {
	if p == nil || p.client == nil {
		return
	}
	if event.ServedAt.IsZero() {
		event.ServedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.client.PublishJSON(ctx, p.exchange, RoutingKey(event.Report), event); err != nil {
		p.logger.Warn("report event publish failed",
			zap.String("report", event.Report),
			zap.String("branch", event.Branch),
			zap.Error(err),
		)
	}
}
