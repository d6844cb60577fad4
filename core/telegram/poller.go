package telegram

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10 * time.Second

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	// DropPendingUpdates asks Telegram to discard updates queued while the bot was offline.
	DropPendingUpdates bool
	Webhook            WebhookOptions
}

// LongPollTimeout returns the configured getUpdates timeout.
func (o PollerOptions) LongPollTimeout() time.Duration {
	if o.LongPollTimeoutSeconds <= 0 {
		return defaultLongPollTimeout
	}
	return time.Duration(o.LongPollTimeoutSeconds) * time.Second
}

// BuildPoller returns a Telebot poller based on provided options.
func BuildPoller(opts PollerOptions) tele.Poller {
	runMode := strings.ToLower(strings.TrimSpace(opts.RunMode))
	if runMode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:         fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			Endpoint:       &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
			DropUpdates:    opts.DropPendingUpdates,
			AllowedUpdates: []string{"message", "callback_query"},
		}
	}

	return &tele.LongPoller{
		Timeout:        opts.LongPollTimeout(),
		AllowedUpdates: []string{"message", "callback_query"},
	}
}
