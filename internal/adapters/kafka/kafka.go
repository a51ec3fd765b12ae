package kafka

import (
	"encoding/json"
	"time"

	"pos-service/internal/realtime"

	"github.com/IBM/sarama"
)

// AuditSink publishes every emitted domain event to a Kafka topic so the
// stall's reporting pipeline can replay the day's activity. It implements
// realtime.EventSink.
type AuditSink struct {
	producer sarama.SyncProducer
	topic    string
}

func NewAuditSink(brokers []string, topic string) (*AuditSink, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = "pos-service"

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &AuditSink{
		producer: producer,
		topic:    topic,
	}, nil
}

func (s *AuditSink) Publish(event realtime.EventName, data interface{}) error {
	payload, err := json.Marshal(realtime.Envelope{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(event.String()),
		Value: sarama.ByteEncoder(payload),
	})
	return err
}

func (s *AuditSink) Close() error {
	return s.producer.Close()
}
