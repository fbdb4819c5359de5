package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TripAtlas-App/internal/domain/model"
	"TripAtlas-App/internal/domain/repository"
	"TripAtlas-App/internal/infrastructure/database"
)

// PostgresRouteLegsRepository レッグキャッシュ（routesテーブル）へのアクセス実装
// routesテーブルは (from_attraction_id, to_attraction_id) にユニーク制約を持ち、
// 自己ループはCHECK制約で拒否される。挿入の競合処理はこの制約に依存する。
type PostgresRouteLegsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresRouteLegsRepository(client *database.PostgreSQLClient) repository.RouteLegsRepository {
	return &PostgresRouteLegsRepository{
		client: client,
	}
}

// RouteLegResult routesテーブルの1行を受け取るための構造体
type RouteLegResult struct {
	ID               int64
	FromAttractionID int64
	ToAttractionID   int64
	GeoJSON          string
	DistanceMeters   float64
	DurationSeconds  float64
	CreatedAt        time.Time
}

// ToRouteLeg RouteLegResultをmodel.RouteLegに変換
func (lr *RouteLegResult) ToRouteLeg() (*model.RouteLeg, error) {
	line, err := GeoJSONToLineString(lr.GeoJSON)
	if err != nil {
		return nil, fmt.Errorf("レッグ %d→%d のジオメトリ復元に失敗: %w", lr.FromAttractionID, lr.ToAttractionID, err)
	}

	return &model.RouteLeg{
		ID:               lr.ID,
		FromAttractionID: lr.FromAttractionID,
		ToAttractionID:   lr.ToAttractionID,
		Geometry:         line,
		DistanceMeters:   lr.DistanceMeters,
		DurationSeconds:  lr.DurationSeconds,
		CreatedAt:        lr.CreatedAt,
	}, nil
}

// FindLeg 順序付きペアのキャッシュ済みレッグを取得する（存在しない場合は nil, nil）
func (r *PostgresRouteLegsRepository) FindLeg(ctx context.Context, fromID, toID int64) (*model.RouteLeg, error) {
	query := `SELECT id, from_attraction_id, to_attraction_id, geo_json, distance_m, duration_s, created_at
		FROM routes
		WHERE from_attraction_id = $1 AND to_attraction_id = $2
		LIMIT 1`

	row := r.client.DB.QueryRowContext(ctx, query, fromID, toID)

	var result RouteLegResult
	err := row.Scan(&result.ID, &result.FromAttractionID, &result.ToAttractionID,
		&result.GeoJSON, &result.DistanceMeters, &result.DurationSeconds, &result.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("レッグ %d→%d の取得失敗: %w", fromID, toID, err)
	}

	return result.ToRouteLeg()
}

// InsertLegIfAbsent レッグを挿入する（同一キーが既に存在する場合は conflict=true）
// ON CONFLICT DO NOTHING + RETURNING を使うため、競合時はRETURNINGが行を返さない。
func (r *PostgresRouteLegsRepository) InsertLegIfAbsent(ctx context.Context, leg *model.RouteLeg) (*model.RouteLeg, bool, error) {
	geoJSON, err := LineStringToGeoJSON(leg.Geometry)
	if err != nil {
		return nil, false, fmt.Errorf("レッグ %d→%d のジオメトリ変換に失敗: %w", leg.FromAttractionID, leg.ToAttractionID, err)
	}

	query := `INSERT INTO routes (from_attraction_id, to_attraction_id, geo_json, distance_m, duration_s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (from_attraction_id, to_attraction_id) DO NOTHING
		RETURNING id, created_at`

	row := r.client.DB.QueryRowContext(ctx, query,
		leg.FromAttractionID, leg.ToAttractionID, geoJSON, leg.DistanceMeters, leg.DurationSeconds)

	inserted := *leg
	err = row.Scan(&inserted.ID, &inserted.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// 別の書き込みが先に同じキーを挿入した
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("レッグ %d→%d の挿入失敗: %w", leg.FromAttractionID, leg.ToAttractionID, err)
	}

	return &inserted, false, nil
}
