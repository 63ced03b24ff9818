package sync

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(app)
	return app
}

func TestHandler_WebhookVerify(t *testing.T) {
	svc := newTestService(&stubSource{fetchFunc: func(ctx context.Context, start, end time.Time) ([]Measurement, error) {
		return nil, nil
	}}, &stubSink{}, nil)
	app := newTestApp(svc)

	for _, method := range []string{"HEAD", "GET"} {
		t.Run(method, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(method, "/webhook/withings", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		})
	}
}

func TestHandler_WebhookNotify(t *testing.T) {
	base := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)

	t.Run("weight notification triggers windowed sync", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		source := &stubSource{fetchFunc: func(ctx context.Context, start, end time.Time) ([]Measurement, error) {
			gotStart, gotEnd = start, end
			return []Measurement{mustMeasurement(t, base, 80.0)}, nil
		}}
		svc := newTestService(source, &stubSink{}, nil)
		app := newTestApp(svc)

		start := base.Add(-time.Hour).Unix()
		end := base.Add(time.Hour).Unix()
		form := url.Values{
			"userid":    {"12345"},
			"appli":     {"1"},
			"startdate": {strconv.FormatInt(start, 10)},
			"enddate":   {strconv.FormatInt(end, 10)},
		}

		req := httptest.NewRequest("POST", "/webhook/withings", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, float64(1), body["synced"])

		assert.Equal(t, time.Unix(start, 0).UTC(), gotStart)
		assert.Equal(t, time.Unix(end, 0).UTC(), gotEnd)
	})

	t.Run("non-weight notification is acknowledged and ignored", func(t *testing.T) {
		source := &stubSource{fetchFunc: func(ctx context.Context, start, end time.Time) ([]Measurement, error) {
			t.Fatal("sync must not run for non-weight notifications")
			return nil, nil
		}}
		svc := newTestService(source, &stubSink{}, nil)
		app := newTestApp(svc)

		form := url.Values{"appli": {"16"}}
		req := httptest.NewRequest("POST", "/webhook/withings", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ignored", body["status"])
	})

	t.Run("json payload fallback", func(t *testing.T) {
		source := &stubSource{fetchFunc: func(ctx context.Context, start, end time.Time) ([]Measurement, error) {
			return nil, nil
		}}
		svc := newTestService(source, &stubSink{}, nil)
		app := newTestApp(svc)

		req := httptest.NewRequest("POST", "/webhook/withings",
			strings.NewReader(`{"userid":"12345","appli":1}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("run failure surfaces as 500", func(t *testing.T) {
		source := &stubSource{fetchFunc: func(ctx context.Context, start, end time.Time) ([]Measurement, error) {
			return nil, assert.AnError
		}}
		svc := newTestService(source, &stubSink{}, nil)
		app := newTestApp(svc)

		form := url.Values{"appli": {"1"}}
		req := httptest.NewRequest("POST", "/webhook/withings", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestHandler_ManualSync(t *testing.T) {
	t.Run("uses requested day count", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		source := &stubSource{fetchFunc: func(ctx context.Context, start, end time.Time) ([]Measurement, error) {
			gotStart, gotEnd = start, end
			return nil, nil
		}}
		svc := newTestService(source, &stubSink{}, nil)
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("POST", "/sync/manual?days=3", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		assert.InDelta(t, 3*24*time.Hour, gotEnd.Sub(gotStart), float64(time.Minute))
	})

	t.Run("defaults to seven days", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		source := &stubSource{fetchFunc: func(ctx context.Context, start, end time.Time) ([]Measurement, error) {
			gotStart, gotEnd = start, end
			return nil, nil
		}}
		svc := newTestService(source, &stubSink{}, nil)
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest("POST", "/sync/manual", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		assert.InDelta(t, 7*24*time.Hour, gotEnd.Sub(gotStart), float64(time.Minute))
	})
}
