package models

import (
	"time"
)

// TopicStatus 主题状态枚举
type TopicStatus string

const (
	TopicStatusActive  TopicStatus = "active"  // 正常展示
	TopicStatusDeleted TopicStatus = "deleted" // 软删除，不出现在任何公开列表
)

// Topic 对应数据库中的 'topics' 表
//
// likes_count / comments_count 是冗余计数列，真实来源分别是 topic_likes 表
// 和 comments 表，每次点赞/评论变更后由服务层重新计算写回。
type Topic struct {
	ID       uint        `json:"id" gorm:"primaryKey"`
	Title    string      `json:"title" gorm:"type:varchar(255);not null"`               // 主题标题
	Content  string      `json:"content" gorm:"type:text"`                              // 正文内容
	Category string      `json:"category" gorm:"type:varchar(100);index"`               // 分类名（冗余存储，不做外键关联）
	AuthorID uint        `json:"author_id" gorm:"not null;index"`                       // 作者ID
	Status   TopicStatus `json:"status" gorm:"type:varchar(20);default:'active';index"` // 状态

	// 统计字段
	Views         int64 `json:"views" gorm:"default:0"`          // 浏览次数
	LikesCount    int64 `json:"likes_count" gorm:"default:0"`    // 点赞数（冗余）
	CommentsCount int64 `json:"comments_count" gorm:"default:0"` // 评论数（冗余）

	// 标记字段
	IsHot      bool `json:"is_hot" gorm:"default:false;index"`      // 热门标记
	IsOfficial bool `json:"is_official" gorm:"default:false;index"` // 官方标记

	// GORM 自动维护的时间戳
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// GORM 关系定义
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}

// TopicResponse 用于向前端返回主题信息，外部字段统一使用 camelCase
type TopicResponse struct {
	ID            uint          `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Category      string        `json:"category"`
	AuthorID      uint          `json:"authorId"`
	AuthorName    string        `json:"authorName"`
	AuthorAvatar  string        `json:"authorAvatar"`
	Views         int64         `json:"views"`
	LikesCount    int64         `json:"likesCount"`
	CommentsCount int64         `json:"commentsCount"`
	IsLiked       bool          `json:"isLiked"`
	IsHot         bool          `json:"isHot"`
	IsOfficial    bool          `json:"isOfficial"`
	Tags          []TagResponse `json:"tags"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TopicCreateRequest 创建主题请求体
type TopicCreateRequest struct {
	Title    string   `json:"title" binding:"required,min=1,max=255"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"omitempty,max=100"`
	Tags     []TagRef `json:"tags"` // 标签引用，元素可为标签ID或标签名
}

// TopicUpdateRequest 更新主题请求体
type TopicUpdateRequest struct {
	Title    string    `json:"title" binding:"omitempty,min=1,max=255"`
	Content  string    `json:"content" binding:"omitempty"`
	Category string    `json:"category" binding:"omitempty,max=100"`
	Tags     *[]TagRef `json:"tags"` // nil 表示不改动标签
}

// TopicQueryRequest 主题列表查询参数
type TopicQueryRequest struct {
	Category string `form:"category"`
	Tag      string `form:"tag"` // 纯数字视为标签ID，否则视为标签名
	Search   string `form:"search"`
	Sort     string `form:"sort"` // latest / hot / official
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// TopicListResponse 主题列表响应
type TopicListResponse struct {
	Topics     []TopicResponse `json:"topics"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"totalPages"`
}

func (Topic) TableName() string {
	return "topics"
}
