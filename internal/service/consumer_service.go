package service

import (
	"context"
	"encoding/json"

	"gapguard-be/internal/dto"
	"gapguard-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drives gap recomputation off the in-process bus so
// an upload returns to the caller before gaps are refreshed.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	gapService IGapService
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	gapService IGapService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		gapService: gapService,
		log:        log,
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
	var payload dto.PublishDocumentProcessedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "unmarshal document processed message", map[string]interface{}{
			"error": err.Error(),
		})
		// A malformed payload will never parse; retrying is pointless.
		msg.Ack()
		return
	}

	if _, err := cs.gapService.RecomputeGaps(ctx, payload.UserId); err != nil {
		cs.log.Error("consumer", "recompute gaps after ingestion", map[string]interface{}{
			"user_id":     payload.UserId.String(),
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("consumer", "gaps recomputed after ingestion", map[string]interface{}{
		"user_id":     payload.UserId.String(),
		"document_id": payload.DocumentId.String(),
	})
	msg.Ack()
}
