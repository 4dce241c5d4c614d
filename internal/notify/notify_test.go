package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"lead-summarizer/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params)
}

func TestSNSNotifier_Publishes(t *testing.T) {
	var captured *sns.PublishInput
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
		},
	}

	n := NewSNSNotifier(mock, "arn:aws:sns:us-east-1:123456789012:leads", logger.NewTestLogger(t))
	err := n.NotifyHighPriority(context.Background(), Alert{
		LeadID:         "lead::7",
		CompanyName:    "Acme",
		Summary:        "Acme grew.",
		Recommendation: "• Call them.",
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:leads", aws.ToString(captured.TopicArn))
	assert.Equal(t, "High-priority lead: Acme", aws.ToString(captured.Subject))
	assert.Equal(t, "lead::7", aws.ToString(captured.MessageAttributes["lead_id"].StringValue))

	var body Alert
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(captured.Message)), &body))
	assert.Equal(t, "Acme grew.", body.Summary)
}

func TestSNSNotifier_TruncatesSubject(t *testing.T) {
	var subject string
	mock := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
			subject = aws.ToString(params.Subject)
			return &sns.PublishOutput{}, nil
		},
	}

	n := NewSNSNotifier(mock, "arn", logger.NewNoOpLogger())
	require.NoError(t, n.NotifyHighPriority(context.Background(), Alert{CompanyName: strings.Repeat("x", 200)}))
	assert.Len(t, subject, 100)
}

func TestSNSNotifier_Error(t *testing.T) {
	mock := &MockSNSService{
		PublishFunc: func(context.Context, *sns.PublishInput) (*sns.PublishOutput, error) {
			return nil, errors.New("AuthorizationError")
		},
	}

	err := NewSNSNotifier(mock, "arn", logger.NewNoOpLogger()).NotifyHighPriority(context.Background(), Alert{LeadID: "lead::1"})
	assert.ErrorContains(t, err, "AuthorizationError")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.NotifyHighPriority(context.Background(), Alert{}))
}
