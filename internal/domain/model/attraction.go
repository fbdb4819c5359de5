package model

// Attraction 観光スポットを表すモデル
type Attraction struct {
	ID          int64    `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	NameLocal   *string  `json:"name_local,omitempty" db:"name_local"`
	Description *string  `json:"description,omitempty" db:"description"`
	Address     *string  `json:"address,omitempty" db:"address"`
	Latitude    *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64 `json:"longitude,omitempty" db:"longitude"`
	SourceURL   *string  `json:"source_url,omitempty" db:"source_url"`
	CityID      int64    `json:"city_id" db:"city_id"`
	CountryCode string   `json:"country_code" db:"country_code"`
}

// HasCoordinates 座標が設定されているかチェック（スクレイピング由来のデータは座標が無いことがある）
func (a *Attraction) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// ToRoutePoint ルート構築の入力地点に変換（座標が無い場合はnil）
func (a *Attraction) ToRoutePoint() *RoutePoint {
	if !a.HasCoordinates() {
		return nil
	}
	return &RoutePoint{
		ID:  a.ID,
		Lat: *a.Latitude,
		Lng: *a.Longitude,
	}
}

// ItineraryDayPlace 旅程1日のなかの訪問順付きアトラクション
type ItineraryDayPlace struct {
	ID             int64      `json:"id" db:"id"`
	ItineraryDayID int64      `json:"itinerary_day_id" db:"itinerary_day_id"`
	AttractionID   int64      `json:"attraction_id" db:"attraction_id"`
	Order          int        `json:"order" db:"order"`
	Attraction     Attraction `json:"attraction"`
}
