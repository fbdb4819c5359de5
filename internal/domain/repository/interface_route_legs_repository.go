package repository

import (
	"context"

	"TripAtlas-App/internal/domain/model"
)

// RouteLegsRepository レッグキャッシュへのアクセスを提供するインターフェース
// キャッシュは (from_attraction_id, to_attraction_id) の順序付きペアで一意。
type RouteLegsRepository interface {
	// FindLeg 順序付きペアのキャッシュ済みレッグを取得する（存在しない場合は nil, nil）
	FindLeg(ctx context.Context, fromID, toID int64) (*model.RouteLeg, error)

	// InsertLegIfAbsent レッグを挿入する。同一キーの行が既に存在する場合は
	// conflict=true を返し、呼び出し側は必ず FindLeg で再読み取りすること。
	// 挿入に成功した場合は保存された行（ID・CreatedAt付き）を返す。
	InsertLegIfAbsent(ctx context.Context, leg *model.RouteLeg) (inserted *model.RouteLeg, conflict bool, err error)
}
