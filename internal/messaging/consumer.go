package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"civicdesk/internal/model"
	"civicdesk/internal/repository"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	maxRetryAttempts = 3
	initialDelay     = 1 * time.Second
	maxDelay         = 30 * time.Second
)

// EventConsumer turns issue events into in-app notification rows for the
// reporter. Deliveries are retried with backoff and deduplicated by message id.
type EventConsumer struct {
	rmq              *RabbitMQ
	notificationRepo *repository.NotificationRepository
	done             chan struct{}
	wg               sync.WaitGroup
}

func NewEventConsumer(rmq *RabbitMQ, notificationRepo *repository.NotificationRepository) *EventConsumer {
	return &EventConsumer{
		rmq:              rmq,
		notificationRepo: notificationRepo,
		done:             make(chan struct{}),
	}
}

func (c *EventConsumer) Start() {
	c.wg.Add(1)
	go c.consumeLoop()
	log.Println("consumer: started")
}

func (c *EventConsumer) consumeLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.done:
			log.Println("consumer: stopping")
			return
		default:
			msgs, err := c.rmq.Consume()
			if err != nil {
				log.Printf("consumer: error %v, retrying in 5s...", err)
				time.Sleep(5 * time.Second)
				continue
			}

			log.Println("consumer: listening for messages")
			c.processQueue(msgs)
		}
	}
}

func (c *EventConsumer) processQueue(msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-c.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("consumer: channel closed, reconnecting...")
				return
			}
			c.processMessageWithRetry(msg)
		}
	}
}

func (c *EventConsumer) processMessageWithRetry(msg amqp.Delivery) {
	messageID := msg.MessageId
	if messageID == "" {
		messageID = fmt.Sprintf("%x", msg.Body[:min(32, len(msg.Body))])
	}

	processed, err := c.notificationRepo.IsMessageProcessed(messageID)
	if err != nil {
		log.Printf("consumer: idempotency check failed: %v", err)
	}
	if processed {
		log.Printf("consumer: %s already processed", messageID)
		msg.Ack(false)
		return
	}

	err = retry.Do(
		func() error {
			return c.handleEvent(msg)
		},
		retry.Attempts(maxRetryAttempts),
		retry.Delay(initialDelay),
		retry.MaxDelay(maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("consumer: retry %d: %v", n+1, err)
		}),
	)

	if err != nil {
		log.Printf("consumer: giving up on %s: %v", messageID, err)
		msg.Nack(false, false)
		return
	}

	if err := c.notificationRepo.MarkMessageProcessed(messageID); err != nil {
		log.Printf("consumer: mark processed failed: %v", err)
	}
	msg.Ack(false)
}

func (c *EventConsumer) handleEvent(msg amqp.Delivery) error {
	switch msg.RoutingKey {
	case RoutingKeyStatusUpdated:
		var event StatusUpdatedMessage
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("decode status event: %w", err)
		}
		title := "Issue status updated"
		message := fmt.Sprintf("Your issue %q is now %s", event.Title, event.NewStatus)
		return c.notifyReporter(event.ReporterID, event.IssueID, title, message)

	case RoutingKeyIssueAssigned:
		var event IssueAssignedMessage
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("decode assignment event: %w", err)
		}
		title := "Issue assigned"
		message := fmt.Sprintf("Your issue %q has been assigned to a department officer", event.Title)
		return c.notifyReporter(event.ReporterID, event.IssueID, title, message)

	case RoutingKeyIssueCreated:
		// Creation events carry no notification today; ack and move on.
		return nil

	default:
		log.Printf("consumer: unknown routing key %s", msg.RoutingKey)
		return nil
	}
}

func (c *EventConsumer) notifyReporter(reporterID, issueID, title, message string) error {
	userID, err := uuid.Parse(reporterID)
	if err != nil {
		// Nothing to notify; drop rather than retry forever.
		return nil
	}

	var issueRef *uuid.UUID
	if id, err := uuid.Parse(issueID); err == nil {
		issueRef = &id
	}

	notification := &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		IssueID:   issueRef,
		Title:     title,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	return c.notificationRepo.Create(notification)
}

func (c *EventConsumer) Stop() {
	close(c.done)
	c.wg.Wait()
	log.Println("consumer: stopped")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
