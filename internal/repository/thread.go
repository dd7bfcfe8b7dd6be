package repository

import (
	"context"
	"errors"
	"time"

	"pawhaven/internal/models"

	"gorm.io/gorm"
)

// ThreadRepository defines persistence operations for message threads.
type ThreadRepository interface {
	// FindByParticipants looks up the thread for a participant pair and
	// optional pet. The pair is normalized before matching, so argument
	// order does not matter. Returns (nil, nil) when no thread exists.
	FindByParticipants(ctx context.Context, userA, userB uint, petID *uint) (*models.MessageThread, error)
	GetByID(ctx context.Context, id uint) (*models.MessageThread, error)
	ListForUser(ctx context.Context, userID uint) ([]models.MessageThread, error)
	Create(ctx context.Context, thread *models.MessageThread) error
	// AppendMessage persists a message and bumps the thread's updated
	// timestamp so recency ordering holds.
	AppendMessage(ctx context.Context, thread *models.MessageThread, msg *models.Message) error
	UpdateMessage(ctx context.Context, msg *models.Message) error
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository returns a new ThreadRepository implementation.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) FindByParticipants(ctx context.Context, userA, userB uint, petID *uint) (*models.MessageThread, error) {
	lo, hi := models.NormalizePair(userA, userB)

	query := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", lo, hi)
	if petID != nil {
		query = query.Where("pet_id = ?", *petID)
	} else {
		query = query.Where("pet_id IS NULL")
	}

	var thread models.MessageThread
	if err := query.First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &thread, nil
}

func (r *threadRepository) GetByID(ctx context.Context, id uint) (*models.MessageThread, error) {
	var thread models.MessageThread
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		First(&thread, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread")
		}
		return nil, models.NewInternalError(err)
	}
	return &thread, nil
}

func (r *threadRepository) ListForUser(ctx context.Context, userID uint) ([]models.MessageThread, error) {
	var threads []models.MessageThread
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&threads).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return threads, nil
}

func (r *threadRepository) Create(ctx context.Context, thread *models.MessageThread) error {
	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *threadRepository) AppendMessage(ctx context.Context, thread *models.MessageThread, msg *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msg.ThreadID = thread.ID
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(thread).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *threadRepository) UpdateMessage(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Save(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
