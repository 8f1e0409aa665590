package worker

import (
	"context"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/cradoe/memberreg/internal/helper"
	"github.com/cradoe/memberreg/internal/repository"
	"github.com/cradoe/memberreg/internal/smtp"
	"github.com/cradoe/memberreg/internal/stream"
)

type Worker struct {
	KafkaStream  *stream.KafkaStream
	ActivityRepo repository.ActivityRepository
	Mailer       smtp.MailerInterface
	Ctx          context.Context
	Helper       *helper.HelperRepository
	Logger       *slog.Logger
}

const (
	// memberRegistrationGroupID is used by the worker that welcomes newly registered members
	memberRegistrationGroupID = "member-registration-group"

	// memberActivityGroupID is used by the worker that writes the audit trail of member changes
	memberActivityGroupID = "member-activity-group"

	pollTimeoutMs = 100
)

// Our workers typically need the event stream plus one or two repositories.
// worker-specific dependency can be passed as argument to the worker
func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream:  wk.KafkaStream,
		ActivityRepo: wk.ActivityRepo,
		Mailer:       wk.Mailer,
		Ctx:          wk.Ctx,
		Helper:       wk.Helper,
		Logger:       wk.Logger,
	}
}

// consume polls the topics until the worker context is cancelled and hands every
// message to handle. A failing message is logged and skipped.
func (wk *Worker) consume(name, groupID string, topics []string, handle func(topic string, value []byte) error) error {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: groupID,
		Topics:  topics,
	})
	if err != nil {
		return err
	}
	defer consumer.Close()

	wk.Logger.Info("worker started", "worker", name, "topics", topics)

	for {
		select {
		case <-wk.Ctx.Done():
			wk.Logger.Info("worker received cancellation signal, shutting down", "worker", name)
			return nil
		default:
			event := consumer.Poll(pollTimeoutMs)
			switch e := event.(type) {
			case *kafka.Message:
				topic := ""
				if e.TopicPartition.Topic != nil {
					topic = *e.TopicPartition.Topic
				}

				if err := handle(topic, e.Value); err != nil {
					wk.Logger.Error("failed to handle message", "worker", name, "topic", topic, "error", err)
				}
			case kafka.Error:
				wk.Logger.Error("kafka error", "worker", name, "error", e)
			case kafka.AssignedPartitions:
				consumer.Assign(e.Partitions)
			case kafka.RevokedPartitions:
				consumer.Unassign()
			}
		}
	}
}
