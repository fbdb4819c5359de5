package test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripAtlas-App/internal/domain/model"
	"TripAtlas-App/internal/infrastructure/maps"
)

// TestORSDirectionsIntegration 実際のOpenRouteService APIで徒歩経路を取得する
// OPENROUTE_API_KEY が未設定の場合はスキップ。
func TestORSDirectionsIntegration(t *testing.T) {
	requireEnv(t, "OPENROUTE_API_KEY")

	provider := maps.NewOpenRouteDirectionsProvider(os.Getenv("OPENROUTE_API_KEY"))

	// 京都: 錦市場 → 八坂神社（徒歩圏内の2地点）
	from := model.LatLng{Lat: 35.0050, Lng: 135.7649}
	to := model.LatLng{Lat: 35.0037, Lng: 135.7786}

	start := time.Now()
	details, err := provider.GetWalkingLeg(context.Background(), from, to)
	require.NoError(t, err)
	fmt.Printf("🚶 経路取得完了: %.0fm / %.0f秒 (所要時間: %v)\n",
		details.DistanceMeters, details.DurationSeconds, time.Since(start))

	assert.Greater(t, details.DistanceMeters, 500.0)
	assert.Less(t, details.DistanceMeters, 5000.0)
	assert.Greater(t, details.DurationSeconds, 0.0)
	require.NotEmpty(t, details.Geometry)

	// ポリラインをデコードして始点・終点がリクエストに近いことを確認
	line := maps.DecodePolyline(details.Geometry)
	require.GreaterOrEqual(t, len(line), 2)

	first := line[0]
	last := line[len(line)-1]
	assert.InDelta(t, from.Lng, first[0], 0.01)
	assert.InDelta(t, from.Lat, first[1], 0.01)
	assert.InDelta(t, to.Lng, last[0], 0.01)
	assert.InDelta(t, to.Lat, last[1], 0.01)
}
