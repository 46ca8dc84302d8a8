package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/accommodation-form-api/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Notifier publishes submission-completed events to an SNS topic so
// downstream consumers (case management, dashboards) can react without
// polling the audit table. Publishing is best-effort.
type Notifier interface {
	PublishSubmission(ctx context.Context, submissionID, email, pdfFilename string) error
}

type notifier struct {
	client   *sns.Client
	topicARN string
}

// NewNotifier returns an error when no topic is configured; callers treat the
// notifier as optional and log a warning instead of failing startup.
func NewNotifier(cfg *config.Config) (Notifier, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &notifier{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (n *notifier) PublishSubmission(ctx context.Context, submissionID, email, pdfFilename string) error {
	payload, err := json.Marshal(map[string]string{
		"event":         "form_submission_completed",
		"submission_id": submissionID,
		"email":         email,
		"pdf_filename":  pdfFilename,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(payload)),
	})
	return err
}
