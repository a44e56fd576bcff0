package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSQueue sends and receives queue messages through AWS SQS.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSQueue constructs an SQS-backed queue client.
func NewSQSQueue(ctx context.Context, queueURL, region string) (*SQSQueue, error) {
	if strings.TrimSpace(queueURL) == "" {
		return nil, fmt.Errorf("sqs queue url is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if strings.TrimSpace(region) != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSQueue{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Enqueue delivers a message to the configured SQS queue.
func (q *SQSQueue) Enqueue(ctx context.Context, msg Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode sqs message: %w", err)
	}

	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

// Receive long-polls for up to 10 messages.
func (q *SQSQueue) Receive(ctx context.Context, wait time.Duration) ([]Delivery, error) {
	waitSeconds := int32(wait / time.Second)
	if waitSeconds <= 0 {
		waitSeconds = 1
	}
	if waitSeconds > 20 {
		waitSeconds = 20
	}
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     waitSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("sqs receive message: %w", err)
	}
	deliveries := make([]Delivery, 0, len(out.Messages))
	for _, m := range out.Messages {
		deliveries = append(deliveries, Delivery{
			Handle: aws.ToString(m.ReceiptHandle),
			Body:   aws.ToString(m.Body),
		})
	}
	return deliveries, nil
}

// Delete acknowledges a delivery by receipt handle.
func (q *SQSQueue) Delete(ctx context.Context, handle string) error {
	if strings.TrimSpace(handle) == "" {
		return nil
	}
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("sqs delete message: %w", err)
	}
	return nil
}

var (
	_ Client   = (*SQSQueue)(nil)
	_ Consumer = (*SQSQueue)(nil)
)
