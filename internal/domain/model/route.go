package model

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LatLng 緯度経度を表す基本的な型（経路検索などで使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// IsValid 緯度経度が地理的に有効な範囲内かチェック
func (l *Location) IsValid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// RoutePoint ルート構築の入力となる1地点（アトラクションIDと座標）
type RoutePoint struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToLatLng RoutePointの座標をLatLng型に変換
func (p *RoutePoint) ToLatLng() LatLng {
	return LatLng{Lat: p.Lat, Lng: p.Lng}
}

// RouteLeg 2つのアトラクション間の徒歩経路（方向付き、キャッシュ対象）
// (FromAttractionID, ToAttractionID) の順序付きペアごとに最大1レコード。
// A→B と B→A は別レコードとして独立に保存される。
type RouteLeg struct {
	ID               int64          `json:"id" db:"id"`
	FromAttractionID int64          `json:"from_attraction_id" db:"from_attraction_id"`
	ToAttractionID   int64          `json:"to_attraction_id" db:"to_attraction_id"`
	Geometry         orb.LineString `json:"-"`
	DistanceMeters   float64        `json:"distance_meters" db:"distance_m"`
	DurationSeconds  float64        `json:"duration_seconds" db:"duration_s"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
}

// RouteBuildRequest POST /routes/build のリクエストボディ
type RouteBuildRequest struct {
	Points []RoutePoint `json:"points" validate:"required,min=2,max=25"`
}

// RouteLegView レスポンスに含めるレッグ情報（座標列はGeoJSONで返す）
type RouteLegView struct {
	FromAttractionID int64             `json:"from_attraction_id"`
	ToAttractionID   int64             `json:"to_attraction_id"`
	DistanceMeters   float64           `json:"distance_meters"`
	DurationSeconds  float64           `json:"duration_seconds"`
	Geometry         *geojson.Geometry `json:"geometry"`
}

// BuiltRoute 1リクエスト分の組み立て済みルート。永続化せず毎回再計算する。
type BuiltRoute struct {
	Legs                 []RouteLegView   `json:"legs"`
	GeoJSON              *geojson.Feature `json:"geojson"`
	TotalDistanceMeters  float64          `json:"total_distance_meters"`
	TotalDurationSeconds float64          `json:"total_duration_seconds"`
	TotalKm              float64          `json:"total_km"`
	TotalDurationMinutes float64          `json:"total_duration_minutes"`
}

// RouteDetails 経路プロバイダから返される1レッグ分の情報
type RouteDetails struct {
	Geometry        string  // エンコード済みポリライン
	DistanceMeters  float64 // segments[0].distance
	DurationSeconds float64 // segments[0].duration
}
