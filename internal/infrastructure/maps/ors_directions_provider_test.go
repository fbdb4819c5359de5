package maps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripAtlas-App/internal/domain/model"
)

const testPolyline = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

// newTestProvider httptestサーバーに向けた短いリトライ間隔のプロバイダを作成
func newTestProvider(serverURL string) *OpenRouteDirectionsProvider {
	provider := NewOpenRouteDirectionsProvider("test-api-key")
	provider.apiURL = serverURL
	provider.retry = RetryPolicy{MaxAttempts: 3, BaseDelay: 10 * time.Millisecond}
	return provider
}

func orsSuccessBody(distance, duration float64) []byte {
	body, _ := json.Marshal(orsResponse{
		Routes: []orsRoute{
			{
				Geometry: testPolyline,
				Segments: []orsSegment{{Distance: distance, Duration: duration}},
			},
		},
	})
	return body
}

// TestGetWalkingLeg_Success 成功レスポンスからレッグ情報を取り出す
func TestGetWalkingLeg_Success(t *testing.T) {
	var gotAuth string
	var gotBody orsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write(orsSuccessBody(1234.5, 890.1))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	details, err := provider.GetWalkingLeg(context.Background(),
		model.LatLng{Lat: 34.9853, Lng: 135.7581},
		model.LatLng{Lat: 35.0047, Lng: 135.77803})

	require.NoError(t, err)
	assert.Equal(t, "test-api-key", gotAuth)

	// 座標は (lng, lat) の順で送られる
	require.Len(t, gotBody.Coordinates, 2)
	assert.Equal(t, []float64{135.7581, 34.9853}, gotBody.Coordinates[0])
	assert.Equal(t, []float64{135.77803, 35.0047}, gotBody.Coordinates[1])

	assert.Equal(t, testPolyline, details.Geometry)
	assert.Equal(t, 1234.5, details.DistanceMeters)
	assert.Equal(t, 890.1, details.DurationSeconds)
}

// TestGetWalkingLeg_RateLimitRetry 429が2回続いた後に成功する（計3回呼び出し＋線形バックオフ）
func TestGetWalkingLeg_RateLimitRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"code": 429, "message": "rate limit exceeded"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(orsSuccessBody(100, 60))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)

	start := time.Now()
	details, err := provider.GetWalkingLeg(context.Background(),
		model.LatLng{Lat: 34.98, Lng: 135.75}, model.LatLng{Lat: 35.00, Lng: 135.77})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 100.0, details.DistanceMeters)

	// バックオフは BaseDelay×1 + BaseDelay×2
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

// TestGetWalkingLeg_RateLimitExhausted リトライ上限までレート制限が続くとUpstreamErrorになる
func TestGetWalkingLeg_RateLimitExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message": "quota exceeded"}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	_, err := provider.GetWalkingLeg(context.Background(),
		model.LatLng{Lat: 34.98, Lng: 135.75}, model.LatLng{Lat: 35.00, Lng: 135.77})

	require.Error(t, err)
	var upstreamErr *model.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

// TestGetWalkingLeg_TerminalError 429以外の非2xxはリトライせず即時失敗する
func TestGetWalkingLeg_TerminalError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 2003, "message": "invalid api key"}}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	_, err := provider.GetWalkingLeg(context.Background(),
		model.LatLng{Lat: 34.98, Lng: 135.75}, model.LatLng{Lat: 35.00, Lng: 135.77})

	require.Error(t, err)
	var upstreamErr *model.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusForbidden, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Message, "invalid api key")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "非2xx・非429はリトライしない")
}

// TestGetWalkingLeg_MissingRouteData 2xxでもルートデータが欠けていれば即時失敗する
func TestGetWalkingLeg_MissingRouteData(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"routes": []}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	_, err := provider.GetWalkingLeg(context.Background(),
		model.LatLng{Lat: 34.98, Lng: 135.75}, model.LatLng{Lat: 35.00, Lng: 135.77})

	require.Error(t, err)
	var upstreamErr *model.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Contains(t, upstreamErr.Message, "missing route data")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "不正なペイロードはリトライしない")
}

// TestGetWalkingLeg_CanceledDuringBackoff リトライ待機中のキャンセルはTimeoutErrorではなくctxのエラーで返る
func TestGetWalkingLeg_CanceledDuringBackoff(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message": "rate limit exceeded"}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	provider.retry = RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := provider.GetWalkingLeg(ctx,
		model.LatLng{Lat: 34.98, Lng: 135.75}, model.LatLng{Lat: 35.00, Lng: 135.77})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var timeoutErr *model.TimeoutError
	assert.False(t, errors.As(err, &timeoutErr), "キャンセルはタイムアウト扱いにしない")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "キャンセル後はリトライしない")
}

// TestGetWalkingLeg_Timeout 応答が制限時間を超えるとリトライの後TimeoutErrorになる
func TestGetWalkingLeg_Timeout(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		w.Write(orsSuccessBody(100, 60))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	provider.timeout = 50 * time.Millisecond
	provider.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := provider.GetWalkingLeg(context.Background(),
		model.LatLng{Lat: 34.98, Lng: 135.75}, model.LatLng{Lat: 35.00, Lng: 135.77})

	require.Error(t, err)
	var timeoutErr *model.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "タイムアウトはリトライ対象")
}
