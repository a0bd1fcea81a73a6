package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/ForumHub/ForumHub-backend/internal/database"
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"gorm.io/gorm"
)

// ErrTagSyncConflict 并发写同一主题的标签时关联表唯一键冲突，
// 整个事务已回滚，调用方可重试
var ErrTagSyncConflict = errors.New("tag sync conflict, please retry")

// TagService 结构体，用于封装与标签相关的数据库操作和业务逻辑
type TagService struct {
	db *gorm.DB
}

// NewTagService 创建并返回一个新的 TagService 实例
func NewTagService() *TagService {
	return &TagService{
		db: database.GetDB(),
	}
}

// SyncTopicTags 以传入的引用集合整体替换主题的标签关联。
// 引用可为标签ID（必须已存在，未知ID记警告后跳过）或标签名（不存在则惰性建标签）。
// 删除旧关联、解析引用、写入新关联全部在一个事务内完成，任一步失败整体回滚
func (s *TagService) SyncTopicTags(topicID uint, refs []models.TagRef) ([]models.TagResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	// 同步目标是主题，软删除的主题不再接受标签变更
	var topic models.Topic
	if err := s.db.WithContext(ctx).Where("id = ? AND status = ?", topicID, models.TopicStatusActive).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("topic not found")
		}
		return nil, fmt.Errorf("failed to check topic existence: %w", err)
	}

	var result []models.TagResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = syncTopicTagsTx(tx, topicID, refs)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTagSyncConflict
		}
		return nil, err
	}

	return result, nil
}

// syncTopicTagsTx 在既有事务内重建主题的标签关联，
// 供 SyncTopicTags 和主题创建/更新事务共用
func syncTopicTagsTx(tx *gorm.DB, topicID uint, refs []models.TagRef) ([]models.TagResponse, error) {
	// 先清空旧关联，保证同步后的集合恰好等于本次传入的集合
	if err := tx.Where("topic_id = ?", topicID).Delete(&models.TopicTag{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear topic tags: %w", err)
	}

	result := []models.TagResponse{}
	seen := make(map[uint]bool)

	for _, ref := range refs {
		tag, err := resolveTagRef(tx, ref)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			// 未知的标签ID：跳过该引用，不让单个坏ID拖垮整次同步
			log.Printf("[TAG SYNC WARN] topic %d references unknown tag id %d, skipped", topicID, ref.ID)
			continue
		}

		// 同一次调用中的重复引用收敛为一条关联
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true

		if err := tx.Create(&models.TopicTag{TopicID: topicID, TagID: tag.ID}).Error; err != nil {
			return nil, fmt.Errorf("failed to create topic tag association: %w", err)
		}
		result = append(result, tag.ToResponse())
	}

	return result, nil
}

// resolveTagRef 把单个标签引用解析为标签行。
// 按ID引用且标签不存在时返回 (nil, nil)，按名称引用且不存在时插入新标签
func resolveTagRef(tx *gorm.DB, ref models.TagRef) (*models.Tag, error) {
	var tag models.Tag

	if ref.ByID() {
		if err := tx.First(&tag, ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to look up tag by id: %w", err)
		}
		return &tag, nil
	}

	if ref.Name == "" {
		return nil, nil
	}

	err := tx.Where("name = ?", ref.Name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up tag by name: %w", err)
	}

	// 名称首次出现，惰性创建标签行
	tag = models.Tag{Name: ref.Name}
	if err := tx.Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &tag, nil
}

// GetTopicTags 获取主题当前的标签列表
func (s *TagService) GetTopicTags(topicID uint) ([]models.TagResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var tags []models.Tag
	if err := s.db.WithContext(ctx).
		Joins("JOIN topic_tags ON topic_tags.tag_id = tags.id").
		Where("topic_tags.topic_id = ?", topicID).
		Order("tags.name").
		Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get topic tags: %w", err)
	}

	result := []models.TagResponse{}
	for i := range tags {
		result = append(result, tags[i].ToResponse())
	}
	return result, nil
}

// GetAllTags 获取全部标签
func (s *TagService) GetAllTags() ([]models.TagResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}

	result := []models.TagResponse{}
	for i := range tags {
		result = append(result, tags[i].ToResponse())
	}
	return result, nil
}

// DeleteTag 删除标签（管理员操作）。先级联清掉所有主题关联再删标签行，
// 两步在一个事务内完成
func (s *TagService) DeleteTag(tagID uint) error {
	if s.db == nil {
		return errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, tagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("tag not found")
			}
			return fmt.Errorf("failed to get tag: %w", err)
		}

		if err := tx.Where("tag_id = ?", tagID).Delete(&models.TopicTag{}).Error; err != nil {
			return fmt.Errorf("failed to delete tag associations: %w", err)
		}

		if err := tx.Delete(&tag).Error; err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		return nil
	})
}
