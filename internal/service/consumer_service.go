package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"car-support-be/internal/dto"
	"car-support-be/internal/entity"
	"car-support-be/internal/repository/unitofwork"
	"car-support-be/pkg/embedding"
	"car-support-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	chunkSize         int
	chunkOverlap      int
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	chunkSize int,
	chunkOverlap int,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishKnowledgeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal knowledge message: %v", err)
		msg.Ack() // malformed messages are never retriable
		return
	}

	log.Printf("[INFO] Indexing knowledge source %s (length: %d)", payload.SourceId, len(payload.Text))

	// Every chunk is indexed in each of its numeral renderings, so a
	// customer asking about a "5人座" finds a snippet written as "五人座".
	chunks := utils.SplitText(payload.Text, cs.chunkSize, cs.chunkOverlap)

	var newEmbeddings []*entity.KnowledgeEmbedding
	chunkIndex := 0
	for _, chunk := range chunks {
		for _, variant := range utils.NumeralVariants(chunk) {
			vector, err := cs.embeddingProvider.Generate(ctx, variant)
			if err != nil {
				log.Printf("[ERROR] Failed to embed chunk %d of source %s: %v", chunkIndex, payload.SourceId, err)
				msg.Nack()
				return
			}

			newEmbeddings = append(newEmbeddings, &entity.KnowledgeEmbedding{
				Id:             uuid.New(),
				Document:       variant,
				EmbeddingValue: vector,
				SourceId:       payload.SourceId,
				ChunkIndex:     chunkIndex,
				CreatedAt:      time.Now(),
			})
			chunkIndex++
		}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-uploads replace the previous rows of the same source.
	if err := uow.KnowledgeEmbeddingRepository().DeleteBySourceId(ctx, payload.SourceId); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings for %s: %v", payload.SourceId, err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.KnowledgeEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create embeddings for %s: %v", payload.SourceId, err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Source %s indexed: %d rows", payload.SourceId, len(newEmbeddings))
	msg.Ack()
}
