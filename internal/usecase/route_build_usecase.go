package usecase

import (
	"context"
	"log"

	"TripAtlas-App/internal/domain/model"
	"TripAtlas-App/internal/domain/repository"
	"TripAtlas-App/internal/domain/service"
)

type RouteBuildUseCase interface {
	// BuildRoute 地点列のリクエストからルートを構築して返す
	BuildRoute(ctx context.Context, req *model.RouteBuildRequest) (*model.BuiltRoute, error)

	// BuildRouteForItineraryDay 旅程1日分の訪問順アトラクションからルートを構築して返す
	BuildRouteForItineraryDay(ctx context.Context, itineraryDayID int64) (*model.BuiltRoute, error)
}

// routeBuildUseCaseImpl RouteBuildUseCaseの実装
type routeBuildUseCaseImpl struct {
	routeBuilder    *service.RouteBuilderService
	attractionsRepo repository.AttractionsRepository
}

// NewRouteBuildUseCase 新しいRouteBuildUseCaseインスタンスを作成
func NewRouteBuildUseCase(routeBuilder *service.RouteBuilderService, attractionsRepo repository.AttractionsRepository) RouteBuildUseCase {
	return &routeBuildUseCaseImpl{
		routeBuilder:    routeBuilder,
		attractionsRepo: attractionsRepo,
	}
}

// BuildRoute 地点列のリクエストからルートを構築して返す
func (u *routeBuildUseCaseImpl) BuildRoute(ctx context.Context, req *model.RouteBuildRequest) (*model.BuiltRoute, error) {
	return u.routeBuilder.BuildRoute(ctx, req.Points)
}

// BuildRouteForItineraryDay 旅程1日分の訪問順アトラクションからルートを構築して返す
// 座標を持たないアトラクション（スクレイピング由来で未ジオコーディングのもの）は除外する。
func (u *routeBuildUseCaseImpl) BuildRouteForItineraryDay(ctx context.Context, itineraryDayID int64) (*model.BuiltRoute, error) {
	places, err := u.attractionsRepo.ListByItineraryDay(ctx, itineraryDayID)
	if err != nil {
		return nil, model.NewInternalError("旅程 %d のアトラクション取得に失敗: %v", itineraryDayID, err)
	}

	var points []model.RoutePoint
	skipped := 0
	for _, place := range places {
		point := place.Attraction.ToRoutePoint()
		if point == nil {
			skipped++
			continue
		}
		points = append(points, *point)
	}

	if skipped > 0 {
		log.Printf("⚠️  旅程 %d: 座標の無いアトラクション%d件をスキップ", itineraryDayID, skipped)
	}

	if len(points) < service.MinRoutePoints {
		return nil, model.NewValidationError("旅程 %d には座標付きのアトラクションが%d地点以上必要です (現在: %d)",
			itineraryDayID, service.MinRoutePoints, len(points))
	}

	return u.routeBuilder.BuildRoute(ctx, points)
}
