package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
)

type memOutbox struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	failed    []uuid.UUID
}

func (r *memOutbox) Create(ctx context.Context, uow repository.UnitOfWork, event *model.OutboxEvent) error {
	r.pending = append(r.pending, event)
	return nil
}

func (r *memOutbox) FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *memOutbox) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	r.processed = append(r.processed, id)
	return nil
}

func (r *memOutbox) MarkFailed(ctx context.Context, id uuid.UUID) error {
	r.failed = append(r.failed, id)
	return nil
}

type memBroker struct {
	published map[string][][]byte
	failsLeft int
}

func (b *memBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	if b.failsLeft > 0 {
		b.failsLeft--
		return errors.New("broker unavailable")
	}
	if b.published == nil {
		b.published = map[string][][]byte{}
	}
	b.published[channel] = append(b.published[channel], payload)
	return nil
}

func (b *memBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *memBroker) Close() error { return nil }

func newProcessor(repo *memOutbox, broker *memBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:    10,
		PollInterval: time.Second,
		MaxRetries:   2,
		RetryDelay:   time.Millisecond,
	}, zerolog.Nop(), nil)
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventAdmissionCreated,
		Payload:   []byte(`{"admission_id":1}`),
		Status:    model.OutboxStatusPending,
	}
	repo := &memOutbox{pending: []*model.OutboxEvent{event}}
	broker := &memBroker{}
	p := newProcessor(repo, broker)

	require.NoError(t, p.processBatch(context.Background()))
	require.Len(t, repo.processed, 1)
	assert.Equal(t, event.ID, repo.processed[0])
	assert.Len(t, broker.published[model.EventAdmissionCreated], 1)
}

func TestProcessBatchRetriesThenSucceeds(t *testing.T) {
	event := &model.OutboxEvent{ID: uuid.New(), EventType: model.EventAdmissionCreated}
	repo := &memOutbox{pending: []*model.OutboxEvent{event}}
	broker := &memBroker{failsLeft: 1}
	p := newProcessor(repo, broker)

	require.NoError(t, p.processBatch(context.Background()))
	assert.Len(t, repo.processed, 1)
	assert.Empty(t, repo.failed)
}

func TestProcessBatchMarksFailedAfterRetries(t *testing.T) {
	event := &model.OutboxEvent{ID: uuid.New(), EventType: model.EventAdmissionCreated}
	repo := &memOutbox{pending: []*model.OutboxEvent{event}}
	broker := &memBroker{failsLeft: 10}
	p := newProcessor(repo, broker)

	require.NoError(t, p.processBatch(context.Background()))
	assert.Empty(t, repo.processed)
	require.Len(t, repo.failed, 1)
	assert.Equal(t, event.ID, repo.failed[0])
}
