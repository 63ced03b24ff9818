package withings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	stdsync "sync"
	"time"

	"scale-sync/core/tokenstore"
	"scale-sync/feature/sync"

	"go.uber.org/zap"
)

// Withings measure types for the getmeas endpoint.
const (
	measureTypeWeight = 1
	measureTypeHeight = 4
)

// statusInvalidToken is the Withings application-level status for an
// expired or revoked access token. The HTTP status is 200 regardless.
const statusInvalidToken = 401

// Client talks to the Withings API. It authenticates with a long-lived
// refresh token, caches the short-lived access token in memory, and
// persists rotated refresh tokens so the chain survives restarts.
//
// Withings rotates the refresh token on every use: the old one is
// invalidated the moment a new one is issued, so losing a rotated token
// means a full manual re-authorization.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens tokenstore.Store
	logger *zap.Logger

	mu          stdsync.Mutex
	accessToken string
}

// NewClient creates a Withings API client.
func NewClient(cfg Config, tokens tokenstore.Store, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
		logger: logger,
	}
}

// apiResponse is the Withings envelope. Errors are reported through the
// application-level status field, not the HTTP status.
type apiResponse struct {
	Status int             `json:"status"`
	Error  string          `json:"error"`
	Body   json.RawMessage `json:"body"`
}

type tokenBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type measureBody struct {
	MeasureGroups []measureGroup `json:"measuregrps"`
}

type measureGroup struct {
	Date     int64     `json:"date"`
	Measures []measure `json:"measures"`
}

type measure struct {
	Value int64 `json:"value"`
	Type  int   `json:"type"`
	Unit  int   `json:"unit"`
}

// realValue decodes the Withings fixed-point encoding: the stored value
// times ten to the power of the (usually negative) unit exponent.
func (m measure) realValue() float64 {
	return float64(m.Value) * math.Pow(10, float64(m.Unit))
}

// Fetch returns weight measurements recorded between start and end,
// oldest data as Withings returns it. A height reported in the same
// measure group as a weight is attached so the downstream write can
// carry a BMI; heights from other groups are ignored.
func (c *Client) Fetch(ctx context.Context, start, end time.Time) ([]sync.Measurement, error) {
	form := url.Values{
		"action":    {"getmeas"},
		"meastypes": {fmt.Sprintf("%d,%d", measureTypeWeight, measureTypeHeight)},
		"category":  {"1"},
		"startdate": {strconv.FormatInt(start.Unix(), 10)},
		"enddate":   {strconv.FormatInt(end.Unix(), 10)},
	}

	raw, err := c.do(ctx, "/measure", form)
	if err != nil {
		return nil, err
	}

	var body measureBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decoding measure response: %w", err)
	}

	var out []sync.Measurement
	for _, grp := range body.MeasureGroups {
		// Height only pairs with a weight taken in the same measure
		// group; a standalone height reading carries no weigh-in.
		var height float64
		for _, m := range grp.Measures {
			if m.Type == measureTypeHeight {
				height = m.realValue()
			}
		}

		for _, m := range grp.Measures {
			if m.Type != measureTypeWeight {
				continue
			}
			msm, err := sync.NewMeasurement(time.Unix(grp.Date, 0), m.realValue())
			if err != nil {
				c.logger.Warn("Skipping invalid measurement",
					zap.Int64("date", grp.Date), zap.Error(err))
				continue
			}
			if height > 0 {
				msm = msm.WithHeight(height)
			}
			out = append(out, msm)
		}
	}

	c.logger.Info("Fetched Withings measurements", zap.Int("count", len(out)))
	return out, nil
}

// do executes one authenticated API call. On an invalid-token status the
// cached access token is dropped and the call retried once with a fresh
// one; a second failure is an authentication error.
func (c *Client) do(ctx context.Context, path string, form url.Values) (json.RawMessage, error) {
	raw, status, err := c.call(ctx, path, form)
	if err != nil {
		return nil, err
	}
	if status == statusInvalidToken {
		c.logger.Info("Withings access token rejected, refreshing")
		c.invalidate()
		raw, status, err = c.call(ctx, path, form)
		if err != nil {
			return nil, err
		}
		if status == statusInvalidToken {
			return nil, &sync.AuthError{
				Platform: "withings",
				Err:      errors.New("token rejected after refresh"),
			}
		}
	}
	if status != 0 {
		return nil, fmt.Errorf("withings api status %d", status)
	}
	return raw, nil
}

func (c *Client) call(ctx context.Context, path string, form url.Values) (json.RawMessage, int, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.post(ctx, path, form, token)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.Status, nil
}

// token returns the cached access token, exchanging the stored refresh
// token for a new pair when the cache is empty.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" {
		return c.accessToken, nil
	}

	refresh, err := c.tokens.LoadWithingsRefreshToken(ctx)
	if errors.Is(err, tokenstore.ErrNotFound) {
		refresh = c.cfg.RefreshToken
	} else if err != nil {
		return "", fmt.Errorf("loading refresh token: %w", err)
	}
	if refresh == "" {
		return "", &sync.AuthError{
			Platform: "withings",
			Err:      errors.New("no refresh token configured, complete the authorization flow first"),
		}
	}

	form := url.Values{
		"action":        {"requesttoken"},
		"grant_type":    {"refresh_token"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"refresh_token": {refresh},
	}

	resp, err := c.post(ctx, "/v2/oauth2", form, "")
	if err != nil {
		return "", err
	}
	if resp.Status != 0 {
		return "", &sync.AuthError{
			Platform: "withings",
			Err:      fmt.Errorf("token refresh rejected with status %d: %s", resp.Status, resp.Error),
		}
	}

	var body tokenBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", &sync.AuthError{
			Platform: "withings",
			Err:      errors.New("token response carried no access token"),
		}
	}

	// The rotated refresh token must be persisted before anything else
	// uses it; failing to save is survivable until the next restart, so
	// it only warns.
	if body.RefreshToken != "" && body.RefreshToken != refresh {
		if err := c.tokens.SaveWithingsRefreshToken(ctx, body.RefreshToken); err != nil {
			c.logger.Warn("Failed to persist rotated refresh token", zap.Error(err))
		} else {
			c.logger.Info("Persisted rotated refresh token")
		}
	}

	c.accessToken = body.AccessToken
	return c.accessToken, nil
}

// invalidate drops the cached access token so the next call refreshes.
func (c *Client) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
}

func (c *Client) post(ctx context.Context, path string, form url.Values, token string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling withings api: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("withings api returned http %d", httpResp.StatusCode)
	}

	var resp apiResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %w", err)
	}
	return &resp, nil
}
