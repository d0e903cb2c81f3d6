package repository

import (
	"context"
	"encoding/json"

	"realtime_chat_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// MessageArchiver publishes every stored message to an external audit stream.
// A nil archiver disables archiving.
type MessageArchiver interface {
	Archive(ctx context.Context, msg domain.ChatMessage) error
}

// KafkaMessageArchiver writes messages to a kafka topic, keyed by room
type KafkaMessageArchiver struct {
	writer *kafka.Writer
}

// NewKafkaMessageArchiver wrap an established kafka writer
func NewKafkaMessageArchiver(writer *kafka.Writer) *KafkaMessageArchiver {
	return &KafkaMessageArchiver{writer: writer}
}

// Archive marshal the message and publish it
func (a *KafkaMessageArchiver) Archive(ctx context.Context, msg domain.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := msg.Room
	if msg.IsPrivate {
		key = domain.ConversationKey(msg.Sender, msg.To)
	}

	return a.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}
