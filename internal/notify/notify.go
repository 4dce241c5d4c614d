// Package notify publishes alerts for high-priority lead enrichments.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"lead-summarizer/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Alert is the payload published for a high-priority lead.
type Alert struct {
	LeadID         string `json:"lead_id"`
	CompanyName    string `json:"company_name"`
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

// Notifier delivers alerts. Implementations must be safe for concurrent use.
type Notifier interface {
	NotifyHighPriority(ctx context.Context, alert Alert) error
}

// SNSService is the slice of the SNS client used here.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	client   SNSService
	topicARN string
	logger   logger.Logger
}

func NewSNSNotifier(client SNSService, topicARN string, log logger.Logger) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN, logger: log}
}

func (n *SNSNotifier) NotifyHighPriority(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	subject := "High-priority lead"
	if alert.CompanyName != "" {
		subject = fmt.Sprintf("High-priority lead: %s", alert.CompanyName)
	}
	// SNS rejects subjects longer than 100 characters.
	if len(subject) > 100 {
		subject = subject[:100]
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"lead_id": {
				DataType:    aws.String("String"),
				StringValue: aws.String(alert.LeadID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish failed: %w", err)
	}

	n.logger.Info("high-priority alert published", map[string]interface{}{
		"leadKey":   alert.LeadID,
		"messageId": aws.ToString(out.MessageId),
	})
	return nil
}

// Nop drops every alert.
type Nop struct{}

func (Nop) NotifyHighPriority(context.Context, Alert) error { return nil }
