package maps

import (
	"math"

	"github.com/paulmach/orb"
)

// polylinePrecision Googleポリライン標準の精度（小数第5位、1e5倍スケール）
const polylinePrecision = 1e5

// DecodePolyline エンコード済みポリライン文字列を座標列にデコードする
// OpenRouteServiceはGoogleのポリライン形式（5bitグループ＋ジグザグ符号付きデルタ）を使用する。
// 戻り値の各点は (lng, lat) の順。
func DecodePolyline(encoded string) orb.LineString {
	var line orb.LineString
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		// 緯度デルタ → 経度デルタの順で累積する
		latDelta, next := decodePolylineValue(encoded, index)
		index = next
		lat += latDelta

		lngDelta, next := decodePolylineValue(encoded, index)
		index = next
		lng += lngDelta

		line = append(line, orb.Point{
			float64(lng) / polylinePrecision,
			float64(lat) / polylinePrecision,
		})
	}

	return line
}

// decodePolylineValue 指定位置から1つの符号付きデルタ値をデコードする
// デコード済みの値と次の読み取り位置を返す。
func decodePolylineValue(encoded string, index int) (int, int) {
	shift, result := 0, 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	// ジグザグ符号を復元（最下位ビットが符号）
	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

// EncodePolyline 座標列をポリライン文字列にエンコードする（入力は (lng, lat) 順）
func EncodePolyline(line orb.LineString) string {
	if len(line) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(line)*4)
	prevLat, prevLng := 0, 0

	for _, pt := range line {
		lat := int(math.Round(pt.Lat() * polylinePrecision))
		lng := int(math.Round(pt.Lon() * polylinePrecision))

		encoded = encodePolylineValue(encoded, lat-prevLat)
		encoded = encodePolylineValue(encoded, lng-prevLng)

		prevLat, prevLng = lat, lng
	}

	return string(encoded)
}

// encodePolylineValue 1つの符号付きデルタ値をエンコードしてdstに追記する
func encodePolylineValue(dst []byte, value int) []byte {
	v := value << 1
	if value < 0 {
		v = ^v
	}
	for v >= 0x20 {
		dst = append(dst, byte((0x20|(v&0x1f))+63))
		v >>= 5
	}
	return append(dst, byte(v+63))
}
