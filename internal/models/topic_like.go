package models

import (
	"time"
)

// TopicLike 主题点赞记录，(topic_id, user_id) 组合唯一，
// 是 topics.likes_count 冗余计数的真实来源
type TopicLike struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	TopicID uint `json:"topic_id" gorm:"not null;uniqueIndex:idx_topic_user"`
	UserID  uint `json:"user_id" gorm:"not null;uniqueIndex:idx_topic_user"`

	CreatedAt time.Time `json:"created_at"`

	// 关联关系
	Topic *Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID;references:ID"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// TableName 指定表名
func (TopicLike) TableName() string {
	return "topic_likes"
}
