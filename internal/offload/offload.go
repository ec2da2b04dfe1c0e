// Package offload moves inline data-URL profile pictures to the CDN after a
// record has been stored, so list responses stay small.
package offload

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alumni/internal/alumni"
	"alumni/internal/cloudinary"
	"alumni/internal/metrics"
	"alumni/internal/queue"
)

// Records is the subset of alumni.Service the processor needs.
type Records interface {
	Get(ctx context.Context, id string) (alumni.Record, error)
	ReplacePicture(ctx context.Context, id, url string) error
}

// Uploader stores a data URL and returns the hosted asset.
type Uploader interface {
	UploadDataURL(ctx context.Context, dataURL, publicID string) (*cloudinary.UploadResult, error)
}

// Processor handles alumni.created messages.
type Processor struct {
	records  Records
	uploader Uploader
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// New creates a processor. m and logger may be nil.
func New(records Records, uploader Uploader, m *metrics.Metrics, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{records: records, uploader: uploader, metrics: m, log: logger}
}

// Handle processes one message. Messages of other types and records that no
// longer carry an inline picture are skipped.
func (p *Processor) Handle(ctx context.Context, msg queue.Message) error {
	if msg.Type != queue.TypeAlumniCreated {
		return nil
	}
	id := string(msg.Body)
	rec, err := p.records.Get(ctx, id)
	if err != nil {
		p.observe(metrics.OutcomeError)
		return fmt.Errorf("fetch record %s: %w", id, err)
	}
	if !rec.HasInlinePicture() {
		p.observe("skipped")
		return nil
	}

	res, err := p.uploader.UploadDataURL(ctx, rec.ProfilePicture, rec.ID)
	if err != nil {
		p.observe(metrics.OutcomeError)
		return fmt.Errorf("upload picture %s: %w", id, err)
	}
	if err := p.records.ReplacePicture(ctx, rec.ID, res.SecureURL); err != nil {
		p.observe(metrics.OutcomeError)
		return fmt.Errorf("replace picture %s: %w", id, err)
	}
	p.observe("uploaded")
	p.log.Info("picture offloaded", zap.String("id", id), zap.String("url", res.SecureURL), zap.Int("bytes", res.Bytes))
	return nil
}

// Run consumes q until ctx ends. Failed messages are logged and dropped.
func (p *Processor) Run(ctx context.Context, q queue.Queue) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return fmt.Errorf("queue consume init failed: %w", err)
	}
	p.log.Info("worker started, waiting for messages")
	for msg := range messages {
		if err := p.Handle(ctx, msg); err != nil {
			p.log.Error("offload failed", zap.String("type", msg.Type), zap.Error(err))
		}
	}
	p.log.Info("worker stopped")
	return nil
}

func (p *Processor) observe(outcome string) {
	if p.metrics != nil {
		p.metrics.Pictures.WithLabelValues(outcome).Inc()
	}
}
