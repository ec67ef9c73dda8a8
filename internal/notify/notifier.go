// internal/notify/notifier.go
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	appconfig "leadscout/internal/common/config"
	"leadscout/internal/common/logger"
	"leadscout/internal/models"
)

const notifyTimeout = 10 * time.Second

// Notifier delivers an optional digest of a completed search: a plain-text
// email via SES and/or a leads.found event on an SNS topic. Delivery is
// best-effort; failures are logged and never surfaced to the caller.
type Notifier struct {
	ses    *ses.Client
	sns    *sns.Client
	cfg    appconfig.NotificationConfig
	logger logger.Logger
}

func New(ctx context.Context, cfg appconfig.NotificationConfig, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, err
	}

	return &Notifier{
		ses:    ses.NewFromConfig(awsCfg),
		sns:    sns.NewFromConfig(awsCfg),
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notify"}),
	}, nil
}

// LeadsFound sends the configured notifications for one completed search.
func (n *Notifier) LeadsFound(ctx context.Context, resp *models.SearchResponse) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if n.cfg.FromEmail != "" && n.cfg.ToEmail != "" {
		n.sendDigestEmail(ctx, resp)
	}
	if n.cfg.TopicARN != "" {
		n.publishEvent(ctx, resp)
	}
}

func (n *Notifier) sendDigestEmail(ctx context.Context, resp *models.SearchResponse) {
	subject, body := BuildDigest(resp)

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		n.logger.Warn("lead digest email failed", map[string]interface{}{
			"query": resp.Query,
			"error": err.Error(),
		})
	}
}

func (n *Notifier) publishEvent(ctx context.Context, resp *models.SearchResponse) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": "leads.found",
		"query": resp.Query,
		"count": resp.Count,
	})
	if err != nil {
		return
	}

	_, err = n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.TopicARN),
		Subject:  aws.String("leads.found"),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		n.logger.Warn("lead event publish failed", map[string]interface{}{
			"query": resp.Query,
			"error": err.Error(),
		})
	}
}
