package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/ohc-assist/internal/config"
	"github.com/wolfman30/ohc-assist/internal/notify"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// Email provider names accepted by EMAIL_PROVIDER.
const (
	EmailSendGrid = "sendgrid"
	EmailSES      = "ses"
	EmailStub     = "stub"
)

// BuildEmailSender selects the lead notification transport. A provider
// without credentials degrades to the logging stub.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, loadAWS AWSLoader, logger *logging.Logger) (notify.EmailSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider)); provider {
	case EmailSendGrid:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY not set; lead emails will only be logged")
			return notify.NewStubEmailSender(logger), nil
		}
		return sender, nil

	case EmailSES:
		if loadAWS == nil {
			return nil, fmt.Errorf("bootstrap: ses requires an AWS loader")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), nil

	case EmailStub, "":
		return notify.NewStubEmailSender(logger), nil

	default:
		return nil, fmt.Errorf("bootstrap: unknown email provider %q", provider)
	}
}
