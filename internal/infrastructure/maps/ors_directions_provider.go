package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"TripAtlas-App/internal/domain/model"
)

const (
	// orsAPIURL OpenRouteServiceの徒歩プロファイルのエンドポイント
	orsAPIURL = "https://api.openrouteservice.org/v2/directions/foot-walking"

	// orsTimeout プロバイダ呼び出し1回あたりの制限時間
	orsTimeout = 10 * time.Second
)

// RetryPolicy リトライ回数とバックオフを定義するポリシー
// リトライ対象はレート制限（429）とタイムアウトのみ。待機時間は BaseDelay × 試行回数（線形バックオフ）。
type RetryPolicy struct {
	MaxAttempts int           // リトライを含む総試行回数
	BaseDelay   time.Duration // バックオフの基準待機時間
}

// DefaultRetryPolicy 既定のリトライポリシー（計3回試行、基準1秒）
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 1 * time.Second}
}

// OpenRouteDirectionsProvider OpenRouteService APIを使用した徒歩経路検索の実装
type OpenRouteDirectionsProvider struct {
	apiKey     string
	httpClient *http.Client
	// apiURL テストで差し替え可能にするためのエンドポイント
	apiURL  string
	retry   RetryPolicy
	timeout time.Duration
}

// NewOpenRouteDirectionsProvider 新しいプロバイダを生成する
func NewOpenRouteDirectionsProvider(apiKey string) *OpenRouteDirectionsProvider {
	return &OpenRouteDirectionsProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: orsTimeout},
		apiURL:     orsAPIURL,
		retry:      DefaultRetryPolicy(),
		timeout:    orsTimeout,
	}
}

// GetWalkingLeg OpenRouteServiceを呼び出して2地点間の徒歩経路を取得する
// レート制限とタイムアウトはポリシーに従って自動リトライし、それ以外の失敗は即時に返す。
func (o *OpenRouteDirectionsProvider) GetWalkingLeg(ctx context.Context, from, to model.LatLng) (*model.RouteDetails, error) {
	var lastErr error

	for attempt := 1; attempt <= o.retry.MaxAttempts; attempt++ {
		details, retryable, err := o.callAPI(ctx, from, to)
		if err == nil {
			return details, nil
		}

		lastErr = err
		if !retryable || attempt == o.retry.MaxAttempts {
			return nil, err
		}

		// 線形バックオフ: BaseDelay × 試行回数
		delay := o.retry.BaseDelay * time.Duration(attempt)
		log.Printf("⚠️  ORS呼び出し失敗 (試行%d/%d)、%v後にリトライ: %v", attempt, o.retry.MaxAttempts, delay, err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			// 呼び出し側のキャンセルはタイムアウトとは別物なのでctxのエラーをそのまま返す
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ctx.Err()
			}
			return nil, model.NewTimeoutError("リトライ待機中に制限時間を超過しました: %v", ctx.Err())
		}
	}

	return nil, lastErr
}

// callAPI ORSへのHTTP呼び出し1回分を実行する
// retryable はレート制限またはタイムアウトによる失敗のときのみtrue。
func (o *OpenRouteDirectionsProvider) callAPI(ctx context.Context, from, to model.LatLng) (*model.RouteDetails, bool, error) {
	// ORSの規約どおり (lng, lat) の順で座標を渡す
	reqBody := orsRequest{
		Coordinates: [][]float64{
			{from.Lng, from.Lat},
			{to.Lng, to.Lat},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, false, model.NewInternalError("リクエストのJSONエンコードに失敗: %v", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, o.apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, false, model.NewInternalError("リクエストの作成に失敗: %v", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if isTimeoutError(err) {
			return nil, true, model.NewTimeoutError("OpenRouteServiceへのリクエストがタイムアウトしました")
		}
		return nil, false, model.NewUpstreamError(0, "OpenRouteServiceへのリクエストに失敗: %v", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeoutError(err) {
			return nil, true, model.NewTimeoutError("OpenRouteServiceのレスポンス読み取りがタイムアウトしました")
		}
		return nil, false, model.NewUpstreamError(0, "レスポンスの読み取りに失敗: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := parseORSError(respBytes)
		if resp.StatusCode == http.StatusTooManyRequests {
			// レート制限はリトライ対象
			return nil, true, model.NewUpstreamError(resp.StatusCode, "レート制限: %s", message)
		}
		return nil, false, model.NewUpstreamError(resp.StatusCode, "%s", message)
	}

	var apiResp orsResponse
	if err := json.Unmarshal(respBytes, &apiResp); err != nil {
		return nil, false, model.NewUpstreamError(resp.StatusCode, "レスポンスのJSONパースに失敗: %v", err)
	}

	// 2xxでもルート・セグメントが欠けていれば不正なペイロードとして即時失敗
	if len(apiResp.Routes) == 0 || len(apiResp.Routes[0].Segments) == 0 {
		return nil, false, model.NewUpstreamError(resp.StatusCode, "invalid response: missing route data")
	}

	route := apiResp.Routes[0]
	segment := route.Segments[0]

	return &model.RouteDetails{
		Geometry:        route.Geometry,
		DistanceMeters:  segment.Distance,
		DurationSeconds: segment.Duration,
	}, false, nil
}

// isTimeoutError エラーがタイムアウト起因かどうか判定する
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseORSError エラーレスポンスのボディからメッセージを取り出す
// ORSは {error: {code, message}} または {message} の形式で返す。どちらも無ければ生ボディを返す。
func parseORSError(body []byte) string {
	var errResp orsErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != nil && errResp.Error.Message != "" {
			return errResp.Error.Message
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	if len(body) == 0 {
		return "unknown error"
	}
	return string(body)
}

// --- OpenRouteService APIのリクエスト・レスポンスをパースするための構造体 ---

type orsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type orsResponse struct {
	Routes []orsRoute `json:"routes"`
}

type orsRoute struct {
	Geometry string       `json:"geometry"`
	Segments []orsSegment `json:"segments"`
}

type orsSegment struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type orsErrorResponse struct {
	Error   *orsErrorBody `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
}

type orsErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
