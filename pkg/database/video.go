package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	"video-api/pkg/models"
)

// VideoStore handles video persistence. Every mutation checks existence and
// writes inside the same transaction.
type VideoStore struct {
	db  *DB
	now func() time.Time
}

func NewVideoStore(db *DB) *VideoStore {
	return &VideoStore{db: db, now: time.Now}
}

// WithClock replaces the clock used to stamp PostDate.
func (s *VideoStore) WithClock(now func() time.Time) *VideoStore {
	s.now = now
	return s
}

func (s *VideoStore) today() string {
	return s.now().Format(models.DateLayout)
}

func (s *VideoStore) Get(ctx context.Context, id int64) (models.Video, error) {
	var video models.Video
	err := s.db.transaction(ctx, func(tx *gorm.DB) error {
		return findVideo(tx, id, &video)
	})
	return video, err
}

// Create inserts video under its own id. An existing id is never overwritten.
func (s *VideoStore) Create(ctx context.Context, video models.Video) (models.Video, error) {
	video.PostDate = s.today()
	err := s.db.transaction(ctx, func(tx *gorm.DB) error {
		var existing models.Video
		switch err := findVideo(tx, video.ID, &existing); {
		case err == nil:
			return fmt.Errorf("video %d: %w", video.ID, ErrConflict)
		case !isNotFound(err):
			return err
		}
		if err := tx.Create(&video).Error; err != nil {
			return fmt.Errorf("failed to create video %d: %w", video.ID, err)
		}
		return nil
	})
	if err != nil {
		return models.Video{}, err
	}
	return video, nil
}

// Replace overwrites every field of an existing video.
func (s *VideoStore) Replace(ctx context.Context, video models.Video) (models.Video, error) {
	return s.update(ctx, video.ID, func(v *models.Video) {
		v.Title = video.Title
		v.Creator = video.Creator
		v.Likes = video.Likes
		v.Views = video.Views
	})
}

// Patch overwrites only the fields set in patch. PostDate is reset even when
// patch is empty.
func (s *VideoStore) Patch(ctx context.Context, id int64, patch models.VideoPatch) (models.Video, error) {
	return s.update(ctx, id, patch.Apply)
}

func (s *VideoStore) update(ctx context.Context, id int64, mutate func(*models.Video)) (models.Video, error) {
	var video models.Video
	err := s.db.transaction(ctx, func(tx *gorm.DB) error {
		if err := findVideo(tx, id, &video); err != nil {
			return err
		}
		mutate(&video)
		video.PostDate = s.today()
		if err := tx.Save(&video).Error; err != nil {
			return fmt.Errorf("failed to update video %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return models.Video{}, err
	}
	return video, nil
}

// Delete removes the video permanently and returns its last-known values.
func (s *VideoStore) Delete(ctx context.Context, id int64) (models.Video, error) {
	var video models.Video
	err := s.db.transaction(ctx, func(tx *gorm.DB) error {
		if err := findVideo(tx, id, &video); err != nil {
			return err
		}
		if err := tx.Delete(&video).Error; err != nil {
			return fmt.Errorf("failed to delete video %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return models.Video{}, err
	}
	return video, nil
}

// List returns videos ordered by id.
func (s *VideoStore) List(ctx context.Context, limit, offset int) ([]models.Video, error) {
	videos := []models.Video{}
	err := s.db.transaction(ctx, func(tx *gorm.DB) error {
		err := tx.Order("videoId asc").Limit(limit).Offset(offset).Find(&videos).Error
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}
		return nil
	})
	return videos, err
}

func findVideo(tx *gorm.DB, id int64, video *models.Video) error {
	err := tx.Where("videoId = ?", id).First(video).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("video %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get video %d: %w", id, err)
	}
	return nil
}
