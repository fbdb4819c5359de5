package repository

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"TripAtlas-App/internal/domain/model"
)

// LineStringToGeoJSON レッグの座標列をDB保存用のGeoJSON LineString文字列に変換
func LineStringToGeoJSON(line orb.LineString) (string, error) {
	geometry := geojson.NewGeometry(line)
	data, err := json.Marshal(geometry)
	if err != nil {
		return "", fmt.Errorf("ジオメトリのJSONエンコードに失敗: %w", err)
	}
	return string(data), nil
}

// GeoJSONToLineString DBに保存されたGeoJSON文字列を座標列に復元
func GeoJSONToLineString(data string) (orb.LineString, error) {
	var geometry geojson.Geometry
	if err := json.Unmarshal([]byte(data), &geometry); err != nil {
		return nil, fmt.Errorf("ジオメトリのJSONパースに失敗: %w", err)
	}

	line, ok := geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("LineString以外のジオメトリが保存されています: %s", geometry.Type)
	}
	return line, nil
}

// CitySearchBound 近傍都市検索用の境界ボックスを作成
// 指定座標を中心に前後 radiusDegrees 度の矩形を返す。
func CitySearchBound(location *model.Location, radiusDegrees float64) orb.Bound {
	center := orb.Point{location.Longitude, location.Latitude}

	bound := orb.Bound{Min: center, Max: center}
	bound = bound.Pad(radiusDegrees)

	return bound
}
