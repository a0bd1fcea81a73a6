package models

import (
	"time"
)

// CommentStatus 评论状态枚举
type CommentStatus string

const (
	CommentStatusActive  CommentStatus = "active"
	CommentStatusDeleted CommentStatus = "deleted"
)

// Comment 对应数据库中的 'comments' 表
//
// parent_id 为空表示顶层评论，否则指向同一主题下的父评论，构成楼中楼。
type Comment struct {
	ID       uint          `json:"id" gorm:"primaryKey"`
	TopicID  uint          `json:"topic_id" gorm:"not null;index"`                        // 所属主题ID
	AuthorID uint          `json:"author_id" gorm:"not null;index"`                       // 评论作者ID
	Content  string        `json:"content" gorm:"type:text;not null"`                     // 评论内容
	ParentID *uint         `json:"parent_id" gorm:"index"`                                // 父评论ID，可为空
	Status   CommentStatus `json:"status" gorm:"type:varchar(20);default:'active';index"` // 状态

	LikesCount int64 `json:"likes_count" gorm:"default:0"` // 点赞数（冗余）

	// GORM 自动维护的时间戳
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// GORM 关系定义
	Topic  *Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID;references:ID"`
	Author *User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}

// CommentResponse 用于向前端返回评论信息，外部字段统一使用 camelCase
type CommentResponse struct {
	ID           uint      `json:"id"`
	TopicID      uint      `json:"topicId"`
	AuthorID     uint      `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	Content      string    `json:"content"`
	ParentID     *uint     `json:"parentId"`
	LikesCount   int64     `json:"likesCount"`
	IsLiked      bool      `json:"isLiked"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CommentCreateRequest 创建评论请求体
type CommentCreateRequest struct {
	TopicID  uint   `json:"topicId" binding:"required"`
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *uint  `json:"parentId"` // 可选，楼中楼回复
}

// CommentListResponse 评论列表响应
type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
}

func (Comment) TableName() string {
	return "comments"
}
