package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	stdsync "sync"
	"time"

	"scale-sync/core/tokenstore"
	"scale-sync/feature/sync"

	"go.uber.org/zap"
)

// Session is the persisted Garmin OAuth state. It is bootstrapped out of
// band (an interactive login produces the first blob) and refreshed in
// place from then on.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Client talks to the Garmin Connect API. The weight endpoints only
// accept day-granular queries, so listing a range fans out into one
// request per day.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens tokenstore.Store
	logger *zap.Logger

	mu      stdsync.Mutex
	session *Session
	now     func() time.Time
}

// NewClient creates a Garmin Connect API client.
func NewClient(cfg Config, tokens tokenstore.Store, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// weighIn is one entry of the day-view response. Garmin stores weight in
// grams and timestamps in epoch milliseconds.
type weighIn struct {
	Weight       float64  `json:"weight"`
	BMI          *float64 `json:"bmi"`
	TimestampGMT int64    `json:"timestampGMT"`
}

type dayView struct {
	DateWeightList []weighIn `json:"dateWeightList"`
}

// List returns weight measurements recorded since the given time, one
// day-view request per calendar day. Days with no data are skipped, not
// errors.
func (c *Client) List(ctx context.Context, since time.Time) ([]sync.Measurement, error) {
	var out []sync.Measurement

	end := c.now().UTC()
	for day := since.UTC().Truncate(24 * time.Hour); !day.After(end); day = day.AddDate(0, 0, 1) {
		view, err := c.fetchDay(ctx, day)
		if err != nil {
			return nil, err
		}

		for _, w := range view.DateWeightList {
			if w.Weight <= 0 {
				continue
			}
			m, err := sync.NewMeasurement(time.UnixMilli(w.TimestampGMT), w.Weight/1000.0)
			if err != nil {
				c.logger.Warn("Skipping invalid weigh-in",
					zap.Int64("timestamp_gmt", w.TimestampGMT), zap.Error(err))
				continue
			}
			out = append(out, m)
		}
	}

	c.logger.Info("Fetched Garmin weigh-ins",
		zap.Int("count", len(out)), zap.Time("since", since))
	return out, nil
}

func (c *Client) fetchDay(ctx context.Context, day time.Time) (*dayView, error) {
	path := "/weight-service/weight/dayview/" + day.Format("2006-01-02")
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching day view %s: %w", day.Format("2006-01-02"), err)
	}

	var view dayView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("decoding day view: %w", err)
	}
	return &view, nil
}

// userWeight is the write payload. Weight goes up in kilograms despite
// coming down in grams; the two endpoints disagree on units.
type userWeight struct {
	DateTimestamp string   `json:"dateTimestamp"`
	GMTTimestamp  string   `json:"gmtTimestamp"`
	UnitKey       string   `json:"unitKey"`
	SourceType    string   `json:"sourceType"`
	Value         float64  `json:"value"`
	BMI           *float64 `json:"bmi,omitempty"`
}

// Write records one weight measurement.
func (c *Client) Write(ctx context.Context, m sync.Measurement) error {
	payload := userWeight{
		DateTimestamp: m.Timestamp.Format("2006-01-02T15:04:05.00"),
		GMTTimestamp:  m.Timestamp.UTC().Format("2006-01-02T15:04:05.00"),
		UnitKey:       "kg",
		SourceType:    "MANUAL",
		Value:         m.Weight,
		BMI:           m.BMI,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding weigh-in: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPost, "/weight-service/user-weight", body); err != nil {
		return fmt.Errorf("writing weigh-in: %w", err)
	}

	c.logger.Info("Wrote Garmin weigh-in",
		zap.Float64("weight_kg", m.Weight), zap.Time("timestamp", m.Timestamp))
	return nil
}

// do executes one authenticated API call. An HTTP 401 drops the cached
// session, refreshes it once, and retries; a second 401 is an
// authentication error.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	data, status, err := c.call(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.logger.Info("Garmin session rejected, refreshing")
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
		data, status, err = c.call(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, &sync.AuthError{
				Platform: "garmin",
				Err:      errors.New("session rejected after refresh"),
			}
		}
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("garmin api returned http %d", status)
	}
	return data, nil
}

func (c *Client) call(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	sess, err := c.currentSession(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("calling garmin api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return data, resp.StatusCode, nil
}

// currentSession returns the cached session, loading it from the token
// store on first use. An expired session is refreshed up front rather
// than burning a request on a guaranteed 401.
func (c *Client) currentSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		data, err := c.tokens.LoadGarminSession(ctx)
		if errors.Is(err, tokenstore.ErrNotFound) {
			return nil, &sync.AuthError{
				Platform: "garmin",
				Err:      errors.New("no session stored, run the bootstrap login first"),
			}
		}
		if err != nil {
			return nil, fmt.Errorf("loading session: %w", err)
		}

		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		c.session = &sess
	}

	if !c.session.ExpiresAt.IsZero() && !c.now().Before(c.session.ExpiresAt) {
		if err := c.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}
	return c.session, nil
}

func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

type tokenExchange struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// refreshLocked exchanges the refresh token for a new session and
// persists it. Callers hold c.mu.
func (c *Client) refreshLocked(ctx context.Context) error {
	if c.session == nil || c.session.RefreshToken == "" {
		return &sync.AuthError{
			Platform: "garmin",
			Err:      errors.New("no refresh token in session"),
		}
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.session.RefreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIURL+"/oauth-service/token", bytes.NewReader([]byte(form.Encode())))
	if err != nil {
		return fmt.Errorf("building refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("refreshing session: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading refresh response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &sync.AuthError{
			Platform: "garmin",
			Err:      fmt.Errorf("session refresh rejected with http %d", resp.StatusCode),
		}
	}

	var ex tokenExchange
	if err := json.Unmarshal(data, &ex); err != nil {
		return fmt.Errorf("decoding refresh response: %w", err)
	}
	if ex.AccessToken == "" {
		return &sync.AuthError{
			Platform: "garmin",
			Err:      errors.New("refresh response carried no access token"),
		}
	}

	sess := &Session{
		AccessToken:  ex.AccessToken,
		RefreshToken: ex.RefreshToken,
		ExpiresAt:    c.now().Add(time.Duration(ex.ExpiresIn) * time.Second),
	}
	if sess.RefreshToken == "" {
		sess.RefreshToken = c.session.RefreshToken
	}

	blob, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := c.tokens.SaveGarminSession(ctx, blob); err != nil {
		c.logger.Warn("Failed to persist refreshed session", zap.Error(err))
	} else {
		c.logger.Info("Persisted refreshed Garmin session")
	}

	c.session = sess
	return nil
}
