package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ForumHub/ForumHub-backend/internal/database"
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"gorm.io/gorm"
)

// TopicService 结构体，用于封装与主题相关的数据库操作和业务逻辑
type TopicService struct {
	db *gorm.DB
}

// NewTopicService 创建并返回一个新的 TopicService 实例
func NewTopicService() *TopicService {
	return &TopicService{
		db: database.GetDB(),
	}
}

// CreateTopic 创建主题，携带标签时在同一事务内完成标签同步
func (s *TopicService) CreateTopic(req *models.TopicCreateRequest, authorID uint) (*models.TopicResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	topic := &models.Topic{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		AuthorID: authorID,
		Status:   models.TopicStatusActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(topic).Error; err != nil {
			return fmt.Errorf("failed to create topic: %w", err)
		}

		if len(req.Tags) > 0 {
			// 标签列表随后的详情查询一并取回，这里只要同步结果落库
			if _, err := syncTopicTagsTx(tx, topic.ID, req.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 创建后读一次详情，拿到作者展示字段和聚合列
	return s.GetTopicByID(topic.ID, &authorID)
}

// GetTopics 获取主题列表，支持分类/标签/搜索筛选与 latest/hot/official 排序。
// viewerID 不为空时每条主题附带 isLiked 状态。
//
// 数据查询与计数查询在同一筛选快照下先后执行，两者之间不加事务，
// 并发写入造成的罕见计数漂移是接受的最终一致性间隙。
func (s *TopicService) GetTopics(query *models.TopicQueryRequest, viewerID *uint) (*models.TopicListResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	b := newTopicQueryBuilder(query, viewerID)

	ctx, cancel := queryContext()
	defer cancel()

	// 计数查询与数据查询使用同一份谓词列表
	countSQL, countArgs := b.CountQuery()
	var total int64
	if err := s.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		logQueryFailure("count topics", countSQL, len(countArgs), err)
		return nil, fmt.Errorf("query failed: %w", err)
	}

	dataSQL, dataArgs := b.DataQuery()
	var rows []topicListRow
	if err := s.db.WithContext(ctx).Raw(dataSQL, dataArgs...).Scan(&rows).Error; err != nil {
		logQueryFailure("list topics", dataSQL, len(dataArgs), err)
		return nil, fmt.Errorf("query failed: %w", err)
	}

	// 二次查询批量取回每个主题的标签列表
	topicIDs := make([]uint, 0, len(rows))
	for i := range rows {
		topicIDs = append(topicIDs, rows[i].ID)
	}
	tagsByTopic, err := s.fetchTopicTags(topicIDs)
	if err != nil {
		return nil, err
	}

	_, pageSize := b.Page()
	response := &models.TopicListResponse{
		Topics:     []models.TopicResponse{},
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
	for i := range rows {
		response.Topics = append(response.Topics, rows[i].toResponse(tagsByTopic[rows[i].ID]))
	}

	return response, nil
}

// GetTopicByID 获取主题详情（含聚合列、作者展示字段与标签列表）
func (s *TopicService) GetTopicByID(id uint, viewerID *uint) (*models.TopicResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	// 复用列表的查询装配，仅追加主键条件
	b := newTopicQueryBuilder(&models.TopicQueryRequest{Page: 1, PageSize: 1}, viewerID)
	b.where("topics.id = ?", id)

	ctx, cancel := queryContext()
	defer cancel()

	dataSQL, dataArgs := b.DataQuery()
	var row topicListRow
	result := s.db.WithContext(ctx).Raw(dataSQL, dataArgs...).Scan(&row)
	if result.Error != nil {
		logQueryFailure("get topic", dataSQL, len(dataArgs), result.Error)
		return nil, fmt.Errorf("query failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("topic not found")
	}

	tagsByTopic, err := s.fetchTopicTags([]uint{row.ID})
	if err != nil {
		return nil, err
	}

	response := row.toResponse(tagsByTopic[row.ID])
	return &response, nil
}

// fetchTopicTags 按主题ID批量取回标签名列表
func (s *TopicService) fetchTopicTags(topicIDs []uint) (map[uint][]models.TagResponse, error) {
	result := make(map[uint][]models.TagResponse)
	if len(topicIDs) == 0 {
		return result, nil
	}

	ctx, cancel := queryContext()
	defer cancel()

	type topicTagRow struct {
		TopicID uint
		ID      uint
		Name    string
	}

	const tagSQL = "SELECT topic_tags.topic_id, tags.id, tags.name FROM tags " +
		"JOIN topic_tags ON topic_tags.tag_id = tags.id WHERE topic_tags.topic_id IN ? ORDER BY tags.name"

	var rows []topicTagRow
	if err := s.db.WithContext(ctx).Raw(tagSQL, topicIDs).Scan(&rows).Error; err != nil {
		logQueryFailure("fetch topic tags", tagSQL, 1, err)
		return nil, fmt.Errorf("query failed: %w", err)
	}

	for _, row := range rows {
		result[row.TopicID] = append(result[row.TopicID], models.TagResponse{ID: row.ID, Name: row.Name})
	}
	return result, nil
}

// UpdateTopic 更新主题，仅作者本人可操作；请求携带 tags 时同事务重建标签关联
func (s *TopicService) UpdateTopic(id uint, req *models.TopicUpdateRequest, userID uint) (*models.TopicResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var topic models.Topic
	if err := s.db.WithContext(ctx).Where("id = ? AND status = ?", id, models.TopicStatusActive).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("topic not found")
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	if topic.AuthorID != userID {
		return nil, errors.New("permission denied: only topic author can update")
	}

	if req.Title != "" {
		topic.Title = req.Title
	}
	if req.Content != "" {
		topic.Content = req.Content
	}
	if req.Category != "" {
		topic.Category = req.Category
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&topic).Error; err != nil {
			return fmt.Errorf("failed to update topic: %w", err)
		}
		if req.Tags != nil {
			if _, err := syncTopicTagsTx(tx, topic.ID, *req.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTopicByID(id, &userID)
}

// DeleteTopic 软删除主题，作者本人或管理员可操作；行保留，仅状态置为 deleted
func (s *TopicService) DeleteTopic(id uint, userID uint, role string) error {
	if s.db == nil {
		return errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var topic models.Topic
	if err := s.db.WithContext(ctx).Where("id = ? AND status = ?", id, models.TopicStatusActive).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("topic not found")
		}
		return fmt.Errorf("failed to get topic: %w", err)
	}

	if topic.AuthorID != userID && role != "admin" {
		return errors.New("permission denied: only topic author can delete")
	}

	if err := s.db.WithContext(ctx).Model(&topic).Update("status", models.TopicStatusDeleted).Error; err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	return nil
}

// IncrementViews 增加主题浏览量。尽力而为：失败由调用方记日志后丢弃，
// 不影响请求成功
func (s *TopicService) IncrementViews(id uint) error {
	if s.db == nil {
		return errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	result := s.db.WithContext(ctx).Model(&models.Topic{}).
		Where("id = ? AND status = ?", id, models.TopicStatusActive).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment views: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("topic not found")
	}
	return nil
}

// LikeTopic 点赞主题。重复点赞为无操作，同样返回当前点赞数。
// 点赞记录变更和冗余计数重算放在同一事务内，保证落库后
// likes_count 始终等于 topic_likes 表的真实计数
func (s *TopicService) LikeTopic(topicID uint, userID uint) (int64, error) {
	return s.toggleTopicLike(topicID, userID, true)
}

// UnlikeTopic 取消点赞主题。未点赞时为无操作
func (s *TopicService) UnlikeTopic(topicID uint, userID uint) (int64, error) {
	return s.toggleTopicLike(topicID, userID, false)
}

func (s *TopicService) toggleTopicLike(topicID uint, userID uint, like bool) (int64, error) {
	if s.db == nil {
		return 0, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var likesCount int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		if err := tx.Where("id = ? AND status = ?", topicID, models.TopicStatusActive).First(&topic).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("topic not found")
			}
			return fmt.Errorf("failed to check topic existence: %w", err)
		}

		var existing models.TopicLike
		err := tx.Where("topic_id = ? AND user_id = ?", topicID, userID).First(&existing).Error
		switch {
		case err == nil:
			if !like {
				if err := tx.Delete(&existing).Error; err != nil {
					return fmt.Errorf("failed to delete like record: %w", err)
				}
			}
			// like 且已点赞：无操作
		case errors.Is(err, gorm.ErrRecordNotFound):
			if like {
				record := models.TopicLike{TopicID: topicID, UserID: userID}
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to create like record: %w", err)
				}
			}
			// unlike 且未点赞：无操作
		default:
			return fmt.Errorf("failed to check existing like: %w", err)
		}

		// 以关联表为准重算冗余计数
		if err := tx.Model(&models.TopicLike{}).Where("topic_id = ?", topicID).Count(&likesCount).Error; err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}
		if err := tx.Model(&models.Topic{}).Where("id = ?", topicID).
			UpdateColumn("likes_count", likesCount).Error; err != nil {
			return fmt.Errorf("failed to refresh likes count: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return likesCount, nil
}

// RefreshHotTopics 重算所有活跃主题的冗余计数并按最近24小时点赞数刷新热门标记，
// 由调度器周期调用
func (s *TopicService) RefreshHotTopics(likesThreshold int) error {
	if s.db == nil {
		return errors.New("database connection not initialized")
	}

	if likesThreshold <= 0 {
		likesThreshold = 10
	}

	ctx, cancel := queryContext()
	defer cancel()

	// 修正可能漂移的冗余计数
	if err := s.db.WithContext(ctx).Exec(
		"UPDATE topics SET " +
			"likes_count = (SELECT COUNT(*) FROM topic_likes WHERE topic_likes.topic_id = topics.id), " +
			"comments_count = (SELECT COUNT(*) FROM comments WHERE comments.topic_id = topics.id AND comments.status = 'active') " +
			"WHERE topics.status = 'active'",
	).Error; err != nil {
		return fmt.Errorf("failed to refresh topic counters: %w", err)
	}

	since := time.Now().Add(-24 * time.Hour)
	if err := s.db.WithContext(ctx).Exec(
		"UPDATE topics SET is_hot = "+
			"(SELECT COUNT(*) FROM topic_likes WHERE topic_likes.topic_id = topics.id AND topic_likes.created_at > ?) >= ? "+
			"WHERE topics.status = 'active'",
		since, likesThreshold,
	).Error; err != nil {
		return fmt.Errorf("failed to refresh hot flags: %w", err)
	}

	return nil
}
