package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Tag 对应数据库中的 'tags' 表，标签按名称唯一，首次使用时惰性创建
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicTag 主题与标签的关联表，主键为 (topic_id, tag_id) 组合
type TopicTag struct {
	TopicID uint `json:"topic_id" gorm:"primaryKey"`
	TagID   uint `json:"tag_id" gorm:"primaryKey"`
}

// TagRef 标签引用，按ID或按名称二选一
//
// JSON 中数字按ID解析，字符串按名称解析，避免在业务层做类型嗅探。
type TagRef struct {
	ID   uint   // 非0表示按ID引用
	Name string // 非空表示按名称引用
}

// ByID 该引用是否为按ID引用
func (r TagRef) ByID() bool {
	return r.ID != 0
}

// UnmarshalJSON 同一位置同时接受数字和字符串两种形态
func (r *TagRef) UnmarshalJSON(data []byte) error {
	var id uint
	if err := json.Unmarshal(data, &id); err == nil {
		*r = TagRef{ID: id}
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*r = TagRef{Name: name}
		return nil
	}

	return fmt.Errorf("tag ref must be a number or a string: %s", string(data))
}

// MarshalJSON 按引用形态输出原始形式
func (r TagRef) MarshalJSON() ([]byte, error) {
	if r.ByID() {
		return json.Marshal(r.ID)
	}
	return json.Marshal(r.Name)
}

// TagResponse 用于向前端返回标签信息
type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TagSyncRequest 同步主题标签请求体
type TagSyncRequest struct {
	Tags []TagRef `json:"tags"`
}

func (t *Tag) ToResponse() TagResponse {
	return TagResponse{
		ID:   t.ID,
		Name: t.Name,
	}
}

func (Tag) TableName() string {
	return "tags"
}

func (TopicTag) TableName() string {
	return "topic_tags"
}
