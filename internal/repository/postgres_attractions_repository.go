package repository

import (
	"context"
	"database/sql"
	"fmt"

	"TripAtlas-App/internal/domain/model"
	"TripAtlas-App/internal/domain/repository"
	"TripAtlas-App/internal/infrastructure/database"
)

// PostgresAttractionsRepository アトラクション・旅程データへのアクセス実装
type PostgresAttractionsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresAttractionsRepository(client *database.PostgreSQLClient) repository.AttractionsRepository {
	return &PostgresAttractionsRepository{
		client: client,
	}
}

// AttractionResult attractionsテーブルの1行を受け取るための構造体
type AttractionResult struct {
	ID          int64
	Name        string
	NameLocal   sql.NullString
	Description sql.NullString
	Address     sql.NullString
	Latitude    sql.NullFloat64
	Longitude   sql.NullFloat64
	SourceURL   sql.NullString
	CityID      int64
	CountryCode string
}

// ToAttraction AttractionResultをmodel.Attractionに変換
func (ar *AttractionResult) ToAttraction() *model.Attraction {
	attraction := &model.Attraction{
		ID:          ar.ID,
		Name:        ar.Name,
		CityID:      ar.CityID,
		CountryCode: ar.CountryCode,
	}

	if ar.NameLocal.Valid {
		attraction.NameLocal = &ar.NameLocal.String
	}
	if ar.Description.Valid {
		attraction.Description = &ar.Description.String
	}
	if ar.Address.Valid {
		attraction.Address = &ar.Address.String
	}
	if ar.Latitude.Valid {
		attraction.Latitude = &ar.Latitude.Float64
	}
	if ar.Longitude.Valid {
		attraction.Longitude = &ar.Longitude.Float64
	}
	if ar.SourceURL.Valid {
		attraction.SourceURL = &ar.SourceURL.String
	}

	return attraction
}

const attractionColumns = `id, name, name_local, description, address, latitude, longitude, source_url, city_id, country_code`

func scanAttraction(row interface{ Scan(dest ...any) error }) (*model.Attraction, error) {
	var result AttractionResult
	err := row.Scan(&result.ID, &result.Name, &result.NameLocal, &result.Description,
		&result.Address, &result.Latitude, &result.Longitude, &result.SourceURL,
		&result.CityID, &result.CountryCode)
	if err != nil {
		return nil, err
	}
	return result.ToAttraction(), nil
}

// GetByID 指定IDのアトラクションを取得する
func (r *PostgresAttractionsRepository) GetByID(ctx context.Context, id int64) (*model.Attraction, error) {
	query := fmt.Sprintf(`SELECT %s FROM attractions WHERE id = $1`, attractionColumns)

	attraction, err := scanAttraction(r.client.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("アトラクション ID %d が見つかりません", id)
		}
		return nil, fmt.Errorf("アトラクションデータの取得失敗: %w", err)
	}

	return attraction, nil
}

// ListByCity 指定都市のアトラクション一覧を取得する
func (r *PostgresAttractionsRepository) ListByCity(ctx context.Context, cityID int64, limit int) ([]model.Attraction, error) {
	query := fmt.Sprintf(`SELECT %s FROM attractions WHERE city_id = $1 ORDER BY name LIMIT $2`, attractionColumns)

	rows, err := r.client.DB.QueryContext(ctx, query, cityID, limit)
	if err != nil {
		return nil, fmt.Errorf("都市 %d のアトラクション取得失敗: %w", cityID, err)
	}
	defer rows.Close()

	var attractions []model.Attraction
	for rows.Next() {
		attraction, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("アトラクションデータスキャンエラー: %w", err)
		}
		attractions = append(attractions, *attraction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("行イテレーション中のエラー: %w", err)
	}

	return attractions, nil
}

// ListByItineraryDay 旅程1日分のアトラクションを訪問順で取得する
func (r *PostgresAttractionsRepository) ListByItineraryDay(ctx context.Context, itineraryDayID int64) ([]model.ItineraryDayPlace, error) {
	query := `SELECT
			p.id, p.itinerary_day_id, p.attraction_id, p."order",
			a.id, a.name, a.name_local, a.description, a.address,
			a.latitude, a.longitude, a.source_url, a.city_id, a.country_code
		FROM itinerary_day_places p
		JOIN attractions a ON a.id = p.attraction_id
		WHERE p.itinerary_day_id = $1
		ORDER BY p."order"`

	rows, err := r.client.DB.QueryContext(ctx, query, itineraryDayID)
	if err != nil {
		return nil, fmt.Errorf("旅程 %d のアトラクション取得失敗: %w", itineraryDayID, err)
	}
	defer rows.Close()

	var places []model.ItineraryDayPlace
	for rows.Next() {
		var place model.ItineraryDayPlace
		var result AttractionResult
		err := rows.Scan(&place.ID, &place.ItineraryDayID, &place.AttractionID, &place.Order,
			&result.ID, &result.Name, &result.NameLocal, &result.Description, &result.Address,
			&result.Latitude, &result.Longitude, &result.SourceURL, &result.CityID, &result.CountryCode)
		if err != nil {
			return nil, fmt.Errorf("旅程データスキャンエラー: %w", err)
		}
		place.Attraction = *result.ToAttraction()
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("行イテレーション中のエラー: %w", err)
	}

	return places, nil
}
