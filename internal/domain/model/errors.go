package model

import "fmt"

// ValidationError 呼び出し側の入力不正（地点数・連続重複ID・座標範囲外）
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError 新しいValidationErrorを作成
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError 経路プロバイダがエラーまたは不正なレスポンスを返した
// （リトライ上限に達したレート制限も含む）
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// NewUpstreamError 新しいUpstreamErrorを作成
func NewUpstreamError(statusCode int, format string, args ...any) *UpstreamError {
	return &UpstreamError{StatusCode: statusCode, Message: fmt.Sprintf(format, args...)}
}

// TimeoutError 経路プロバイダが制限時間内に応答しなかった（リトライ上限到達後）
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s", e.Message)
}

// NewTimeoutError 新しいTimeoutErrorを作成
func NewTimeoutError(format string, args ...any) *TimeoutError {
	return &TimeoutError{Message: fmt.Sprintf(format, args...)}
}

// InternalError キャッシュ挿入の競合後、フォールバック読み取りでも行が見つからない等の内部異常
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

// NewInternalError 新しいInternalErrorを作成
func NewInternalError(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
