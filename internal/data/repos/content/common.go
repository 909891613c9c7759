package content

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
)

func getByID[T any](tx *gorm.DB, kind string, id uint) (*T, error) {
	var row T
	err := tx.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound(kind, id)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func idsWhereIn[T any](tx *gorm.DB, column string, parentIDs []uint) ([]uint, error) {
	out := []uint{}
	if len(parentIDs) == 0 {
		return out, nil
	}
	var model T
	if err := tx.Model(&model).
		Where(column+" IN ?", parentIDs).
		Order("id ASC").
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func deleteByIDs[T any](tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var model T
	res := tx.Where("id IN ?", ids).Delete(&model)
	return res.RowsAffected, res.Error
}
