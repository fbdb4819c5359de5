package model

// Country 地理データベースの国情報（読み取り専用）
type Country struct {
	CCA2 string `json:"cca2"`
	CCA3 string `json:"cca3"`
	Name string `json:"name"`
}

// City 地理データベースの都市情報（読み取り専用）
type City struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
}

// ToLocation 都市の座標をLocation型に変換
func (c *City) ToLocation() Location {
	return Location{Latitude: c.Latitude, Longitude: c.Longitude}
}
