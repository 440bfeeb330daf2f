package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartBody(ts []int64, closes []string) string {
	body := `{"chart":{"result":[{"timestamp":[`
	for i, t := range ts {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf("%d", t)
	}
	body += `],"indicators":{"quote":[{"close":[`
	for i, c := range closes {
		if i > 0 {
			body += ","
		}
		body += c
	}
	return body + `]}]}}],"error":null}}`
}

func testClient(hosts ...string) *Client {
	c := NewClient(zerolog.Nop())
	c.hosts = hosts
	return c
}

func TestClient_GetDailyCloses(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BTC-USD", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		fmt.Fprint(w, chartBody([]int64{day1.Unix(), day2.Unix()}, []string{"100.5", "110.25"}))
	}))
	defer srv.Close()

	closes, err := testClient(srv.URL).GetDailyCloses(context.Background(), "BTC-USD", day1, day2)
	require.NoError(t, err)
	require.Len(t, closes, 2)
	assert.Equal(t, "2024-01-01", closes[0].Day)
	assert.Equal(t, 100.5, closes[0].Close)
	assert.Equal(t, "2024-01-02", closes[1].Day)
	assert.Equal(t, 110.25, closes[1].Close)
}

func TestClient_GetDailyClosesSkipsNullCloses(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody([]int64{day1.Unix(), day2.Unix()}, []string{"null", "110"}))
	}))
	defer srv.Close()

	closes, err := testClient(srv.URL).GetDailyCloses(context.Background(), "ETH-USD", day1, day2)
	require.NoError(t, err)
	require.Len(t, closes, 1)
	assert.Equal(t, "2024-01-02", closes[0].Day)
}

func TestClient_GetDailyClosesRotatesHosts(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "Edge: Too Many Requests")
	}))
	defer limited.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody([]int64{day1.Unix()}, []string{"42"}))
	}))
	defer healthy.Close()

	closes, err := testClient(limited.URL, healthy.URL).GetDailyCloses(context.Background(), "SPY", day1, day1)
	require.NoError(t, err)
	require.Len(t, closes, 1)
	assert.Equal(t, 42.0, closes[0].Close)
}

func TestClient_GetDailyClosesRejectsHTMLBody(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>captcha</html>")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetDailyCloses(context.Background(), "SPY", day1, day1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-json body")
}

func TestSource_GetDailyClosesAligns(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v8/finance/chart/BTC-USD":
			fmt.Fprint(w, chartBody([]int64{day1.Unix(), day2.Unix()}, []string{"100", "110"}))
		case "/v8/finance/chart/ETH-USD":
			fmt.Fprint(w, chartBody([]int64{day2.Unix()}, []string{"50"}))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	source := NewSource(testClient(srv.URL), false)
	records, err := source.GetDailyCloses(context.Background(), []string{"BTC-USD", "ETH-USD"}, day1, day2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 100.0, records[0].PriceOn("BTC-USD"))
	assert.Equal(t, 0.0, records[0].PriceOn("ETH-USD"))
	assert.Equal(t, 50.0, records[1].PriceOn("ETH-USD"))
}
