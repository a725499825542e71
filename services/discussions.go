package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chaitanyaB4u/ferries/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const pendingCountTTL = 30 * time.Second

// DiscussionService is the feed half of the outbox design: posting a message
// inserts the discussion and a pending feed row for the other party in one
// transaction, and clears the author's own backlog for the thread. The cache
// is optional; pass nil outside of a full deployment.
type DiscussionService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewDiscussionService(db *gorm.DB, cache *redis.Client) *DiscussionService {
	return &DiscussionService{db: db, cache: cache}
}

type NewDiscussionRequest struct {
	EnrollmentID uint
	CreatedByID  uint
	ToUserID     uint
	Description  string

	// Denormalized display fields carried onto the feed row
	ProgramID   uint
	ProgramName string
	CoachID     uint
	CoachName   string
	MemberID    uint
	MemberName  string
}

// PendingFeed is one pending-response entry with its message and author.
type PendingFeed struct {
	Feed        models.Feed `json:"feed"`
	Description string      `json:"description"`
	Author      models.User `json:"author"`
}

// CreateDiscussion posts a message. One transaction inserts the discussion,
// a pending feed for the other party, and marks read every pending feed
// addressed to the author in this enrollment: replying implies the author
// saw everything before it.
func (s *DiscussionService) CreateDiscussion(req NewDiscussionRequest) (*models.Discussion, error) {
	if req.Description == "" {
		return nil, validation("description of the discussion is a must")
	}

	discussion := models.Discussion{
		ID:           uuid.NewString(),
		EnrollmentID: req.EnrollmentID,
		CreatedByID:  req.CreatedByID,
		Description:  req.Description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&discussion).Error; err != nil {
			return err
		}

		feed := models.Feed{
			ID:           uuid.NewString(),
			ToUserID:     req.ToUserID,
			DiscussionID: discussion.ID,
			EnrollmentID: req.EnrollmentID,
			IsPending:    true,
			ProgramID:    req.ProgramID,
			ProgramName:  req.ProgramName,
			CoachID:      req.CoachID,
			CoachName:    req.CoachName,
			MemberID:     req.MemberID,
			MemberName:   req.MemberName,
		}
		if err := tx.Create(&feed).Error; err != nil {
			return err
		}

		return tx.Model(&models.Feed{}).
			Where("is_pending = ? AND to_user_id = ? AND enrollment_id = ?", true, req.CreatedByID, req.EnrollmentID).
			Update("is_pending", false).Error
	})
	if err != nil {
		return nil, persistence(err)
	}

	s.invalidateCount(req.CreatedByID)
	s.invalidateCount(req.ToUserID)
	return &discussion, nil
}

// CountPending returns how many feeds await the user's response, cached for
// a short window.
func (s *DiscussionService) CountPending(ctx context.Context, userID uint) (int64, error) {
	key := pendingCountKey(userID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	if err := s.db.Model(&models.Feed{}).
		Where("is_pending = ? AND to_user_id = ?", true, userID).
		Count(&count).Error; err != nil {
		return 0, persistence(err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, strconv.FormatInt(count, 10), pendingCountTTL)
	}
	return count, nil
}

// ListPending returns the newest feeds awaiting the user's response, capped
// at limit (FeedPageSize when zero), with the message and its author.
func (s *DiscussionService) ListPending(userID uint, limit int) ([]PendingFeed, error) {
	if limit <= 0 {
		limit = FeedPageSize()
	}

	var feeds []models.Feed
	if err := s.db.
		Where("is_pending = ? AND to_user_id = ?", true, userID).
		Order("created_at desc").
		Limit(limit).
		Find(&feeds).Error; err != nil {
		return nil, persistence(err)
	}

	ids := make([]string, 0, len(feeds))
	for _, feed := range feeds {
		ids = append(ids, feed.DiscussionID)
	}

	var discussions []models.Discussion
	if len(ids) > 0 {
		if err := s.db.Preload("CreatedBy").Where("id IN ?", ids).Find(&discussions).Error; err != nil {
			return nil, persistence(err)
		}
	}
	byID := make(map[string]models.Discussion, len(discussions))
	for _, discussion := range discussions {
		byID[discussion.ID] = discussion
	}

	result := make([]PendingFeed, 0, len(feeds))
	for _, feed := range feeds {
		discussion := byID[feed.DiscussionID]
		result = append(result, PendingFeed{
			Feed:        feed,
			Description: discussion.Description,
			Author:      discussion.CreatedBy,
		})
	}
	return result, nil
}

// ListByEnrollment returns the whole thread, oldest first.
func (s *DiscussionService) ListByEnrollment(enrollmentID uint) ([]models.Discussion, error) {
	var discussions []models.Discussion
	if err := s.db.
		Where("enrollment_id = ?", enrollmentID).
		Order("created_at asc").
		Find(&discussions).Error; err != nil {
		return nil, persistence(err)
	}
	return discussions, nil
}

func (s *DiscussionService) invalidateCount(userID uint) {
	if s.cache == nil {
		return
	}
	s.cache.Del(context.Background(), pendingCountKey(userID))
}

func pendingCountKey(userID uint) string {
	return fmt.Sprintf("feed:pending:%d", userID)
}
