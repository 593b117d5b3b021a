package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"car-support-be/internal/dto"
	"car-support-be/internal/entity"
	"car-support-be/internal/repository/contract"
	"car-support-be/internal/repository/specification"
	"car-support-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKnowledgeRepo struct {
	mu      sync.Mutex
	rows    []*entity.KnowledgeEmbedding
	deleted []string
}

func (f *fakeKnowledgeRepo) Create(ctx context.Context, e *entity.KnowledgeEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, e)
	return nil
}

func (f *fakeKnowledgeRepo) CreateBulk(ctx context.Context, es []*entity.KnowledgeEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, es...)
	return nil
}

func (f *fakeKnowledgeRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeKnowledgeRepo) DeleteBySourceId(ctx context.Context, sourceId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, sourceId)
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.SourceId != sourceId {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeKnowledgeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeEmbedding, error) {
	return nil, nil
}

func (f *fakeKnowledgeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeEmbedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.KnowledgeEmbedding(nil), f.rows...), nil
}

func (f *fakeKnowledgeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeKnowledgeRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeEmbedding, error) {
	return nil, nil
}

func (f *fakeKnowledgeRepo) snapshot() []*entity.KnowledgeEmbedding {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.KnowledgeEmbedding(nil), f.rows...)
}

type fakeKnowledgeUow struct {
	repo *fakeKnowledgeRepo
}

func (f *fakeKnowledgeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeKnowledgeUow) Commit() error                   { return nil }
func (f *fakeKnowledgeUow) Rollback() error                 { return nil }
func (f *fakeKnowledgeUow) KnowledgeEmbeddingRepository() contract.KnowledgeEmbeddingRepository {
	return f.repo
}
func (f *fakeKnowledgeUow) VehicleListingRepository() contract.VehicleListingRepository { return nil }
func (f *fakeKnowledgeUow) ChatLogRepository() contract.ChatLogRepository               { return nil }

type fakeKnowledgeUowFactory struct {
	uow *fakeKnowledgeUow
}

func (f *fakeKnowledgeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func TestUploadQueuesMessage(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	topic := "TEST_INGEST"
	messages, err := pubSub.Subscribe(context.Background(), topic)
	require.NoError(t, err)

	svc := NewKnowledgeService(
		&fakeKnowledgeUowFactory{uow: &fakeKnowledgeUow{repo: &fakeKnowledgeRepo{}}},
		NewPublisherService(topic, pubSub),
	)

	res, err := svc.Upload(context.Background(), &dto.UploadKnowledgeRequest{Text: "保固服務說明"})
	require.NoError(t, err)
	assert.Equal(t, "queued", res.Status)
	assert.NotEmpty(t, res.SourceId)

	select {
	case msg := <-messages:
		var payload dto.PublishKnowledgeMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, res.SourceId, payload.SourceId)
		assert.Equal(t, "保固服務說明", payload.Text)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no message arrived on the ingest topic")
	}
}

func TestConsumerIndexesNumeralVariants(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	topic := "TEST_INGEST_CONSUME"
	repo := &fakeKnowledgeRepo{}
	factory := &fakeKnowledgeUowFactory{uow: &fakeKnowledgeUow{repo: repo}}

	consumer := NewConsumerService(pubSub, topic, factory, stubEmbedder{}, 500, 50)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(topic, pubSub)
	svc := NewKnowledgeService(factory, publisher)

	res, err := svc.Upload(context.Background(), &dto.UploadKnowledgeRequest{Text: "本車為5人座"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(repo.snapshot()) >= 2
	}, 3*time.Second, 20*time.Millisecond, "expected the Arabic and ideographic variants to be indexed")

	rows := repo.snapshot()
	docs := make([]string, 0, len(rows))
	for _, r := range rows {
		assert.Equal(t, res.SourceId, r.SourceId)
		docs = append(docs, r.Document)
	}
	assert.Contains(t, docs, "本車為5人座")
	assert.Contains(t, docs, "本車為五人座")
}

func TestDeleteRemovesSource(t *testing.T) {
	repo := &fakeKnowledgeRepo{}
	repo.rows = []*entity.KnowledgeEmbedding{
		{Id: uuid.New(), SourceId: "web-aaaa", Document: "d1"},
		{Id: uuid.New(), SourceId: "web-bbbb", Document: "d2"},
	}
	factory := &fakeKnowledgeUowFactory{uow: &fakeKnowledgeUow{repo: repo}}

	svc := NewKnowledgeService(factory, nil)

	res, err := svc.Delete(context.Background(), "web-aaaa")
	require.NoError(t, err)
	assert.Equal(t, "web-aaaa", res.SourceId)

	rows := repo.snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "web-bbbb", rows[0].SourceId)
}
