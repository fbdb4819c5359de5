package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"TripAtlas-App/internal/database"
	"TripAtlas-App/internal/domain/model"
	"TripAtlas-App/internal/domain/repository"
)

// SupabaseGeoRepository 地理データベース（国・都市）への読み取り専用アクセス実装
// 地理データは別プロジェクトのSupabaseに置かれており、このリポジトリは書き込みを行わない。
type SupabaseGeoRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseGeoRepository(client *database.SupabaseClient) repository.GeoRepository {
	return &SupabaseGeoRepository{
		client: client,
	}
}

// countryRow countriesテーブルの1行（name_commonカラムをNameにマッピングする）
type countryRow struct {
	CCA2       string `json:"cca2"`
	CCA3       string `json:"cca3"`
	NameCommon string `json:"name_common"`
}

// ListCountries 全ての国を名前順で取得する
func (r *SupabaseGeoRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	var rows []countryRow
	data, count, err := r.client.GetClient().From("countries").Select("*", "exact", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("国データの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("国データのJSONアンマーシャル失敗: %w", err)
	}

	countries := make([]model.Country, len(rows))
	for i, row := range rows {
		countries[i] = model.Country{
			CCA2: row.CCA2,
			CCA3: row.CCA3,
			Name: row.NameCommon,
		}
	}

	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Name < countries[j].Name
	})

	return countries, nil
}

// ListCitiesByCountry 指定国の都市を取得する（search指定時は名前の部分一致、最大100件）
func (r *SupabaseGeoRepository) ListCitiesByCountry(ctx context.Context, countryCode string, search string) ([]model.City, error) {
	builder := r.client.GetClient().From("cities").
		Select("id, name, latitude, longitude, country_code", "exact", false).
		Eq("country_code", countryCode)

	if search != "" {
		builder = builder.Like("name", "%"+search+"%")
	}

	data, count, err := builder.Limit(100, "").Execute()
	if err != nil {
		return nil, fmt.Errorf("国 %s の都市データ取得失敗: %w", countryCode, err)
	}
	_ = count

	var cities []model.City
	if err := json.Unmarshal([]byte(data), &cities); err != nil {
		return nil, fmt.Errorf("都市データのJSONアンマーシャル失敗: %w", err)
	}

	sort.Slice(cities, func(i, j int) bool {
		return cities[i].Name < cities[j].Name
	})

	return cities, nil
}

// ListNearestCities 指定座標の近傍都市を境界ボックス検索で取得する（最大20件、指定座標自身は除く）
func (r *SupabaseGeoRepository) ListNearestCities(ctx context.Context, lat, lng, radiusDegrees float64) ([]model.City, error) {
	location := &model.Location{Latitude: lat, Longitude: lng}
	bound := CitySearchBound(location, radiusDegrees)

	data, count, err := r.client.GetClient().From("cities").
		Select("id, name, latitude, longitude, country_code", "exact", false).
		Gt("latitude", fmt.Sprintf("%f", bound.Min.Lat())).
		Lt("latitude", fmt.Sprintf("%f", bound.Max.Lat())).
		Gt("longitude", fmt.Sprintf("%f", bound.Min.Lon())).
		Lt("longitude", fmt.Sprintf("%f", bound.Max.Lon())).
		Neq("latitude", fmt.Sprintf("%f", lat)).
		Neq("longitude", fmt.Sprintf("%f", lng)).
		Limit(20, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("近傍都市データの取得失敗: %w", err)
	}
	_ = count

	var cities []model.City
	if err := json.Unmarshal([]byte(data), &cities); err != nil {
		return nil, fmt.Errorf("都市データのJSONアンマーシャル失敗: %w", err)
	}

	sort.Slice(cities, func(i, j int) bool {
		return cities[i].Name < cities[j].Name
	})

	return cities, nil
}
