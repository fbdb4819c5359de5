package repository

import (
	"context"

	"TripAtlas-App/internal/domain/model"
)

// GeoRepository 地理データベース（国・都市）への読み取り専用アクセスを提供するインターフェース
// 書き込みは行わない。バックエンドは別プロジェクトの読み取り専用ストア。
type GeoRepository interface {
	// ListCountries 全ての国を名前順で取得する
	ListCountries(ctx context.Context) ([]model.Country, error)

	// ListCitiesByCountry 指定国の都市を取得する（search指定時は名前の部分一致、最大100件）
	ListCitiesByCountry(ctx context.Context, countryCode string, search string) ([]model.City, error)

	// ListNearestCities 指定座標の近傍都市を境界ボックス検索で取得する（最大20件、指定座標自身は除く）
	ListNearestCities(ctx context.Context, lat, lng, radiusDegrees float64) ([]model.City, error)
}
