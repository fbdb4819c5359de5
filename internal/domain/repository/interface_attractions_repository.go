package repository

import (
	"context"

	"TripAtlas-App/internal/domain/model"
)

// AttractionsRepository アトラクションデータへのアクセスを提供するインターフェース
type AttractionsRepository interface {
	// GetByID 指定IDのアトラクションを取得する
	GetByID(ctx context.Context, id int64) (*model.Attraction, error)

	// ListByCity 指定都市のアトラクション一覧を取得する
	ListByCity(ctx context.Context, cityID int64, limit int) ([]model.Attraction, error)

	// ListByItineraryDay 旅程1日分のアトラクションを訪問順で取得する
	ListByItineraryDay(ctx context.Context, itineraryDayID int64) ([]model.ItineraryDayPlace, error)
}
