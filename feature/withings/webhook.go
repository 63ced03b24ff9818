package withings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// applicationWeight is the notification category subscribed to.
const applicationWeight = 1

// Subscription is one registered webhook callback.
type Subscription struct {
	Appli       int    `json:"appli"`
	CallbackURL string `json:"callbackurl"`
	Comment     string `json:"comment"`
}

type notifyListBody struct {
	Profiles []Subscription `json:"profiles"`
}

// Subscribe registers callbackURL for weight measurement notifications.
// Withings probes the URL with HEAD before accepting it, so the server
// must be publicly reachable when this is called.
func (c *Client) Subscribe(ctx context.Context, callbackURL string) error {
	form := url.Values{
		"action":      {"subscribe"},
		"callbackurl": {callbackURL},
		"appli":       {strconv.Itoa(applicationWeight)},
	}

	if _, err := c.do(ctx, "/notify", form); err != nil {
		return fmt.Errorf("subscribing webhook: %w", err)
	}

	c.logger.Info("Subscribed Withings webhook", zap.String("callback_url", callbackURL))
	return nil
}

// ListSubscriptions returns the active weight notification subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	form := url.Values{
		"action": {"list"},
		"appli":  {strconv.Itoa(applicationWeight)},
	}

	raw, err := c.do(ctx, "/notify", form)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	var body notifyListBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding webhook list: %w", err)
	}
	return body.Profiles, nil
}

// Revoke removes the weight notification subscription for callbackURL.
func (c *Client) Revoke(ctx context.Context, callbackURL string) error {
	form := url.Values{
		"action":      {"revoke"},
		"callbackurl": {callbackURL},
		"appli":       {strconv.Itoa(applicationWeight)},
	}

	if _, err := c.do(ctx, "/notify", form); err != nil {
		return fmt.Errorf("revoking webhook: %w", err)
	}

	c.logger.Info("Revoked Withings webhook", zap.String("callback_url", callbackURL))
	return nil
}
