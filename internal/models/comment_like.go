package models

import (
	"time"
)

// CommentLike 评论点赞记录，(comment_id, user_id) 组合唯一，
// 是 comments.likes_count 冗余计数的真实来源
type CommentLike struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CommentID uint `json:"comment_id" gorm:"not null;uniqueIndex:idx_comment_user"`
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_comment_user"`

	CreatedAt time.Time `json:"created_at"`

	// 关联关系
	Comment *Comment `json:"comment,omitempty" gorm:"foreignKey:CommentID;references:ID"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// TableName 指定表名
func (CommentLike) TableName() string {
	return "comment_likes"
}
