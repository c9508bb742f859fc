package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/go-geonotify/internal/config"
	"github.com/go-geonotify/internal/domain"
)

// EventBatchSettled is the event attribute on every published summary.
const EventBatchSettled = "notify.batch_settled"

type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher announces settled notify batches on an SNS topic.
type Publisher struct {
	client   publisher
	topicARN string
}

func NewPublisher(ctx context.Context, cfg *config.Config) (*Publisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for sns: %w", err)
	}

	var clientOpts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &Publisher{client: sns.NewFromConfig(awsCfg, clientOpts...), topicARN: cfg.OutcomeTopicARN}, nil
}

// batchSettled is the published event. Recipient addresses stay in the
// archived manifest.
type batchSettled struct {
	BatchID    string    `json:"batch_id"`
	CampaignID int64     `json:"campaign_id"`
	Recipients int       `json:"recipients"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	Manifest   string    `json:"manifest,omitempty"`
	SettledAt  time.Time `json:"settled_at"`
}

func eventOf(s *domain.BatchSummary) batchSettled {
	return batchSettled{
		BatchID:    s.BatchID,
		CampaignID: s.CampaignID,
		Recipients: len(s.Recipients),
		Sent:       s.Sent,
		Failed:     s.Failed,
		Manifest:   s.Manifest,
		SettledAt:  s.SettledAt,
	}
}

// Publish sends the counts of summary as a JSON message.
func (p *Publisher) Publish(ctx context.Context, summary *domain.BatchSummary) error {
	body, err := json.Marshal(eventOf(summary))
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(EventBatchSettled)},
			"campaign_id": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(strconv.FormatInt(summary.CampaignID, 10)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
