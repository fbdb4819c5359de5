package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"TripAtlas-App/internal/domain/model"
	"TripAtlas-App/internal/domain/repository"
	"TripAtlas-App/internal/infrastructure/maps"
)

const (
	// MinRoutePoints ルート構築に必要な最小地点数
	MinRoutePoints = 2
	// MaxRoutePoints ルート構築で受け付ける最大地点数
	MaxRoutePoints = 25
)

// DirectionsProvider 経路プロバイダ（2地点間の徒歩経路を1レッグ分取得する）
type DirectionsProvider interface {
	GetWalkingLeg(ctx context.Context, from, to model.LatLng) (*model.RouteDetails, error)
}

// RouteBuilderService 順序付き地点列から連続した徒歩ルートを構築するサービス
// 連続する各ペアについて、キャッシュ済みレッグの利用またはプロバイダからの取得を
// 全ペア並行で行い、結果を地点順に組み立てる。
type RouteBuilderService struct {
	directionsProvider DirectionsProvider
	legsRepo           repository.RouteLegsRepository
}

// NewRouteBuilderService 新しいRouteBuilderServiceインスタンスを作成
func NewRouteBuilderService(directionsProvider DirectionsProvider, legsRepo repository.RouteLegsRepository) *RouteBuilderService {
	return &RouteBuilderService{
		directionsProvider: directionsProvider,
		legsRepo:           legsRepo,
	}
}

// BuildRoute 順序付き地点列の全ペアのレッグを解決し、1本のルートに組み立てる
// いずれかのペアが失敗した場合はルート全体を失敗させる（部分的なルートは返さない）。
func (s *RouteBuilderService) BuildRoute(ctx context.Context, points []model.RoutePoint) (*model.BuiltRoute, error) {
	if err := validateRoutePoints(points); err != nil {
		return nil, err
	}

	pairCount := len(points) - 1
	log.Printf("🗺️  ルート構築開始: %d地点 (%dレッグ)", len(points), pairCount)
	start := time.Now()

	type legResult struct {
		index int
		leg   *model.RouteLeg
		err   error
	}

	results := make(chan legResult, pairCount)
	var wg sync.WaitGroup

	// 各ペアのレッグ解決を並行で実行（ペア間に依存は無い）
	for i := 0; i < pairCount; i++ {
		wg.Add(1)
		go func(idx int, from, to model.RoutePoint) {
			defer wg.Done()
			leg, err := s.resolveLeg(ctx, from, to)
			results <- legResult{index: idx, leg: leg, err: err}
		}(i, points[i], points[i+1])
	}

	// 別のgoroutineでwaitしてチャンネルを閉じる
	go func() {
		wg.Wait()
		close(results)
	}()

	// 完了順ではなく地点順（index）に結果を並べ直す
	legs := make([]*model.RouteLeg, pairCount)
	var firstErr error
	for result := range results {
		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
			}
			continue
		}
		legs[result.index] = result.leg
	}

	if firstErr != nil {
		return nil, firstErr
	}

	route := assembleRoute(points, legs)
	log.Printf("✅ ルート構築完了: %.1fkm / %.0f分 (%v)", route.TotalKm, route.TotalDurationMinutes, time.Since(start))
	return route, nil
}

// resolveLeg 1ペア分のレッグを解決する: キャッシュ照会 → プロバイダ取得 →
// デコード → 挿入 → 競合時はフォールバック再読み取り
func (s *RouteBuilderService) resolveLeg(ctx context.Context, from, to model.RoutePoint) (*model.RouteLeg, error) {
	// 1. キャッシュ照会（ヒットした場合は再検証せずそのまま使う）
	cached, err := s.legsRepo.FindLeg(ctx, from.ID, to.ID)
	if err != nil {
		return nil, model.NewInternalError("レッグ %d→%d のキャッシュ照会に失敗: %v", from.ID, to.ID, err)
	}
	if cached != nil {
		return cached, nil
	}

	// 2. キャッシュミス → プロバイダから取得（リトライはプロバイダ内部で行う）
	details, err := s.directionsProvider.GetWalkingLeg(ctx, from.ToLatLng(), to.ToLatLng())
	if err != nil {
		if isRouteError(err) {
			return nil, err
		}
		return nil, model.NewInternalError("レッグ %d→%d の取得に失敗: %v", from.ID, to.ID, err)
	}

	// 3. ポリラインをデコードして座標列に変換
	geometry := maps.DecodePolyline(details.Geometry)

	newLeg := &model.RouteLeg{
		FromAttractionID: from.ID,
		ToAttractionID:   to.ID,
		Geometry:         geometry,
		DistanceMeters:   details.DistanceMeters,
		DurationSeconds:  details.DurationSeconds,
	}

	// 4. 挿入（同じペアを並行で計算した別リクエストが先に挿入していることがある）
	inserted, conflict, err := s.legsRepo.InsertLegIfAbsent(ctx, newLeg)
	if err != nil {
		return nil, model.NewInternalError("レッグ %d→%d の保存に失敗: %v", from.ID, to.ID, err)
	}
	if !conflict {
		return inserted, nil
	}

	// 5. 競合した場合はローカル結果を破棄し、先に挿入された行を再読み取りする
	log.Printf("⚠️  レッグ %d→%d の挿入が競合、キャッシュを再読み取り", from.ID, to.ID)
	existing, err := s.legsRepo.FindLeg(ctx, from.ID, to.ID)
	if err != nil {
		return nil, model.NewInternalError("レッグ %d→%d のフォールバック読み取りに失敗: %v", from.ID, to.ID, err)
	}
	if existing == nil {
		return nil, model.NewInternalError("レッグ %d→%d が競合後のフォールバック読み取りで見つかりません", from.ID, to.ID)
	}

	return existing, nil
}

// validateRoutePoints 入力地点列を検証する（地点数・連続重複ID・座標範囲）
func validateRoutePoints(points []model.RoutePoint) error {
	if len(points) < MinRoutePoints || len(points) > MaxRoutePoints {
		return model.NewValidationError("地点数は%d〜%dの範囲で指定してください (指定: %d)", MinRoutePoints, MaxRoutePoints, len(points))
	}

	for i, p := range points {
		if p.ID <= 0 {
			return model.NewValidationError("地点%dのIDが不正です: %d", i, p.ID)
		}
		location := model.Location{Latitude: p.Lat, Longitude: p.Lng}
		if !location.IsValid() {
			return model.NewValidationError("地点%d (ID %d) の座標が範囲外です: lat=%f, lng=%f", i, p.ID, p.Lat, p.Lng)
		}
		// 連続する地点の重複のみ拒否する（後の地点で再訪するのは許可）
		if i > 0 && points[i-1].ID == p.ID {
			return model.NewValidationError("連続する地点が同じアトラクションIDです (位置%d: ID %d)", i, p.ID)
		}
	}

	return nil
}

// assembleRoute 解決済みレッグ列を地点順に結合して1本のルートを作る
// 2本目以降のレッグは先頭座標（直前のレッグの末尾と同じ共有地点）を落として結合する。
func assembleRoute(points []model.RoutePoint, legs []*model.RouteLeg) *model.BuiltRoute {
	var merged orb.LineString
	var totalDistance, totalDuration float64

	views := make([]model.RouteLegView, len(legs))
	for i, leg := range legs {
		coords := leg.Geometry
		if i > 0 && len(coords) > 0 {
			coords = coords[1:]
		}
		merged = append(merged, coords...)

		totalDistance += leg.DistanceMeters
		totalDuration += leg.DurationSeconds

		// レッグのfrom/toはキャッシュ行ではなくリクエストの地点順で付与する
		views[i] = model.RouteLegView{
			FromAttractionID: points[i].ID,
			ToAttractionID:   points[i+1].ID,
			DistanceMeters:   leg.DistanceMeters,
			DurationSeconds:  leg.DurationSeconds,
			Geometry:         geojson.NewGeometry(leg.Geometry),
		}
	}

	feature := geojson.NewFeature(merged)
	feature.Properties = geojson.Properties{
		"total_distance_meters":  totalDistance,
		"total_duration_seconds": totalDuration,
		"leg_count":              len(legs),
	}

	return &model.BuiltRoute{
		Legs:                 views,
		GeoJSON:              feature,
		TotalDistanceMeters:  totalDistance,
		TotalDurationSeconds: totalDuration,
		TotalKm:              totalDistance / 1000,
		TotalDurationMinutes: totalDuration / 60,
	}
}

// isRouteError エラーがこのサブシステムの型付きエラーかどうか判定する
func isRouteError(err error) bool {
	var validationErr *model.ValidationError
	var upstreamErr *model.UpstreamError
	var timeoutErr *model.TimeoutError
	var internalErr *model.InternalError
	return errors.As(err, &validationErr) ||
		errors.As(err, &upstreamErr) ||
		errors.As(err, &timeoutErr) ||
		errors.As(err, &internalErr)
}
