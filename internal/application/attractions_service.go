package application

import (
	"context"
	"fmt"

	"TripAtlas-App/internal/domain/model"
	"TripAtlas-App/internal/domain/repository"
)

// defaultCityAttractionsLimit 都市別一覧の既定の最大件数
const defaultCityAttractionsLimit = 100

// AttractionsService アトラクション参照に関するビジネスロジックを提供するサービス
type AttractionsService interface {
	// GetAttraction アトラクションの詳細を取得
	GetAttraction(ctx context.Context, id int64) (*model.Attraction, error)

	// ListCityAttractions 都市別のアトラクション一覧を取得
	ListCityAttractions(ctx context.Context, cityID int64, limit int) ([]model.Attraction, error)
}

// attractionsServiceImpl AttractionsServiceの実装
type attractionsServiceImpl struct {
	attractionsRepo repository.AttractionsRepository
}

// NewAttractionsService AttractionsServiceの新しいインスタンスを作成
func NewAttractionsService(attractionsRepo repository.AttractionsRepository) AttractionsService {
	return &attractionsServiceImpl{
		attractionsRepo: attractionsRepo,
	}
}

// GetAttraction アトラクションの詳細を取得
func (s *attractionsServiceImpl) GetAttraction(ctx context.Context, id int64) (*model.Attraction, error) {
	if id <= 0 {
		return nil, fmt.Errorf("アトラクションIDが不正です: %d", id)
	}
	return s.attractionsRepo.GetByID(ctx, id)
}

// ListCityAttractions 都市別のアトラクション一覧を取得
func (s *attractionsServiceImpl) ListCityAttractions(ctx context.Context, cityID int64, limit int) ([]model.Attraction, error) {
	if cityID <= 0 {
		return nil, fmt.Errorf("都市IDが不正です: %d", cityID)
	}
	if limit <= 0 || limit > defaultCityAttractionsLimit {
		limit = defaultCityAttractionsLimit
	}
	return s.attractionsRepo.ListByCity(ctx, cityID, limit)
}
