package engagement

import (
	"strings"
	"time"
)

type TargetType string

const (
	TargetBook TargetType = "book"
	TargetShop TargetType = "shop"
)

func ParseTargetType(raw string) (TargetType, bool) {
	switch TargetType(strings.ToLower(strings.TrimSpace(raw))) {
	case TargetBook:
		return TargetBook, true
	case TargetShop:
		return TargetShop, true
	default:
		return "", false
	}
}

type ReviewerType string

const (
	ReviewerStudent ReviewerType = "student"
	ReviewerShop    ReviewerType = "shop"
)

func ParseReviewerType(raw string) (ReviewerType, bool) {
	switch ReviewerType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ReviewerStudent:
		return ReviewerStudent, true
	case ReviewerShop:
		return ReviewerShop, true
	default:
		return "", false
	}
}

const (
	MinRating = 1
	MaxRating = 5
)

// Review is append-only. The composite unique index enforces one review per
// (target, reviewer) pair.
type Review struct {
	ID           int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	TargetType   TargetType   `gorm:"column:target_type;not null;uniqueIndex:idx_review_target_reviewer,priority:1;index:idx_review_target,priority:1" json:"target_type"`
	TargetID     int64        `gorm:"column:target_id;not null;uniqueIndex:idx_review_target_reviewer,priority:2;index:idx_review_target,priority:2" json:"target_id"`
	ReviewerType ReviewerType `gorm:"column:reviewer_type;not null;uniqueIndex:idx_review_target_reviewer,priority:3" json:"reviewer_type"`
	ReviewerID   int64        `gorm:"column:reviewer_id;not null;uniqueIndex:idx_review_target_reviewer,priority:4" json:"reviewer_id"`
	Rating       int          `gorm:"column:rating;not null" json:"rating"`
	Comment      string       `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }

// ReviewView adds the reviewer's display name.
type ReviewView struct {
	Review
	ReviewerName string `json:"reviewer_name"`
}
