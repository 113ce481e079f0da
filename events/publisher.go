package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Event is the payload published for every content mutation. Consumers
// (static-site rebuilds, cache purges) react to these.
type Event struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
}

// PublisherConfig holds Kafka producer configuration.
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// Publisher emits content change events to a Kafka topic. Publishing
// is best-effort and asynchronous: PublishChange hands the message to
// the producer and returns, and delivery failures are logged, never
// pushed back on the mutation that triggered them.
type Publisher struct {
	producer sarama.AsyncProducer
	topic    string
	done     chan struct{}
}

// NewPublisher creates a Kafka publisher.
func NewPublisher(config PublisherConfig) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = false
	saramaConfig.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}

	p := &Publisher{producer: producer, topic: config.Topic, done: make(chan struct{})}
	go p.drainErrors()
	return p, nil
}

func (p *Publisher) drainErrors() {
	defer close(p.done)
	for err := range p.producer.Errors() {
		log.Printf("failed to publish change event: %v", err)
	}
}

// PublishChange implements content.EventSink. It queues the event on
// the producer without waiting for broker acknowledgement.
func (p *Publisher) PublishChange(collection, op, id string) {
	payload, err := json.Marshal(Event{
		Collection: collection,
		Op:         op,
		ID:         id,
		At:         time.Now().UTC(),
	})
	if err != nil {
		log.Printf("failed to encode change event: %v", err)
		return
	}

	p.producer.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(collection),
		Value: sarama.ByteEncoder(payload),
	}
}

// Close flushes queued messages, shuts the producer down, and waits for
// the error drain to finish.
func (p *Publisher) Close() error {
	p.producer.AsyncClose()
	<-p.done
	return nil
}
