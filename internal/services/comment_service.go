package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ForumHub/ForumHub-backend/internal/database"
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"gorm.io/gorm"
)

// CommentService 结构体，用于封装与评论相关的数据库操作和业务逻辑
type CommentService struct {
	db *gorm.DB
}

// NewCommentService 创建并返回一个新的 CommentService 实例
func NewCommentService() *CommentService {
	return &CommentService{
		db: database.GetDB(),
	}
}

// commentListRow 评论列表查询的一行扫描目标
type commentListRow struct {
	ID           uint
	TopicID      uint
	AuthorID     uint
	AuthorName   string
	AuthorAvatar string
	Content      string
	ParentID     *uint
	LikesCount   int64
	IsLiked      bool
	CreatedAt    time.Time
}

func (r *commentListRow) toResponse() models.CommentResponse {
	return models.CommentResponse{
		ID:           r.ID,
		TopicID:      r.TopicID,
		AuthorID:     r.AuthorID,
		AuthorName:   r.AuthorName,
		AuthorAvatar: r.AuthorAvatar,
		Content:      r.Content,
		ParentID:     r.ParentID,
		LikesCount:   r.LikesCount,
		IsLiked:      r.IsLiked,
		CreatedAt:    r.CreatedAt,
	}
}

// CreateComment 创建评论。父评论必须存在、活跃且属于同一主题。
// 评论落库和主题 comments_count 重算在同一事务内完成
func (s *CommentService) CreateComment(req *models.CommentCreateRequest, authorID uint) (*models.CommentResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	comment := &models.Comment{
		TopicID:  req.TopicID,
		AuthorID: authorID,
		Content:  req.Content,
		ParentID: req.ParentID,
		Status:   models.CommentStatusActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		if err := tx.Where("id = ? AND status = ?", req.TopicID, models.TopicStatusActive).First(&topic).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("topic not found")
			}
			return fmt.Errorf("failed to check topic existence: %w", err)
		}

		if req.ParentID != nil {
			var parent models.Comment
			if err := tx.Where("id = ? AND status = ?", *req.ParentID, models.CommentStatusActive).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("parent comment not found")
				}
				return fmt.Errorf("failed to check parent comment: %w", err)
			}
			// 楼中楼不允许跨主题
			if parent.TopicID != req.TopicID {
				return errors.New("parent comment belongs to a different topic")
			}
		}

		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		return refreshTopicCommentsCountTx(tx, req.TopicID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCommentByID(comment.ID, &authorID)
}

// GetCommentByID 获取单条评论（含作者展示字段与点赞聚合）
func (s *CommentService) GetCommentByID(id uint, viewerID *uint) (*models.CommentResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	dataSQL, args := buildCommentQuery(viewerID, "comments.id = ?")
	args = append(args, id)

	var row commentListRow
	result := s.db.WithContext(ctx).Raw(dataSQL, args...).Scan(&row)
	if result.Error != nil {
		logQueryFailure("get comment", dataSQL, len(args), result.Error)
		return nil, fmt.Errorf("query failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("comment not found")
	}

	response := row.toResponse()
	return &response, nil
}

// GetCommentsByTopicID 获取主题下的评论列表，按创建时间正序（楼层顺序）分页。
// viewerID 不为空时每条评论附带 isLiked 状态
func (s *CommentService) GetCommentsByTopicID(topicID uint, page, pageSize int, viewerID *uint) (*models.CommentListResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	ctx, cancel := queryContext()
	defer cancel()

	const countSQL = "SELECT COUNT(*) FROM comments WHERE comments.topic_id = ? AND comments.status = ?"
	var total int64
	if err := s.db.WithContext(ctx).Raw(countSQL, topicID, models.CommentStatusActive).Scan(&total).Error; err != nil {
		logQueryFailure("count comments", countSQL, 2, err)
		return nil, fmt.Errorf("query failed: %w", err)
	}

	dataSQL, args := buildCommentQuery(viewerID, "comments.topic_id = ?")
	args = append(args, topicID)
	dataSQL += fmt.Sprintf(" ORDER BY comments.created_at ASC LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	var rows []commentListRow
	if err := s.db.WithContext(ctx).Raw(dataSQL, args...).Scan(&rows).Error; err != nil {
		logQueryFailure("list comments", dataSQL, len(args), err)
		return nil, fmt.Errorf("query failed: %w", err)
	}

	response := &models.CommentListResponse{
		Comments:   []models.CommentResponse{},
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
	for i := range rows {
		response.Comments = append(response.Comments, rows[i].toResponse())
	}
	return response, nil
}

// buildCommentQuery 装配评论查询。extraCond 的参数由调用方追加在返回的
// args 之后；viewer 参数因 SELECT 先拼装而位于参数列表首位
func buildCommentQuery(viewerID *uint, extraCond string) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT comments.id, comments.topic_id, comments.author_id, comments.content, ")
	sb.WriteString("comments.parent_id, comments.created_at, ")
	sb.WriteString("users.username AS author_name, users.avatar AS author_avatar, ")
	sb.WriteString("(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) AS likes_count")

	if viewerID != nil {
		sb.WriteString(", (SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.user_id = ?) > 0 AS is_liked")
		args = append(args, *viewerID)
	}

	sb.WriteString(" FROM comments LEFT JOIN users ON users.id = comments.author_id")
	sb.WriteString(" WHERE comments.status = 'active' AND ")
	sb.WriteString(extraCond)

	return sb.String(), args
}

// DeleteComment 软删除评论，作者本人或管理员可操作。
// 状态变更与主题 comments_count 重算在同一事务内完成
func (s *CommentService) DeleteComment(id uint, userID uint, role string) error {
	if s.db == nil {
		return errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("id = ? AND status = ?", id, models.CommentStatusActive).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("comment not found")
			}
			return fmt.Errorf("failed to get comment: %w", err)
		}

		if comment.AuthorID != userID && role != "admin" {
			return errors.New("permission denied: only comment author can delete")
		}

		if err := tx.Model(&comment).Update("status", models.CommentStatusDeleted).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		return refreshTopicCommentsCountTx(tx, comment.TopicID)
	})
}

// refreshTopicCommentsCountTx 以评论表为准重算主题的冗余评论计数
func refreshTopicCommentsCountTx(tx *gorm.DB, topicID uint) error {
	var count int64
	if err := tx.Model(&models.Comment{}).
		Where("topic_id = ? AND status = ?", topicID, models.CommentStatusActive).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count comments: %w", err)
	}
	if err := tx.Model(&models.Topic{}).Where("id = ?", topicID).
		UpdateColumn("comments_count", count).Error; err != nil {
		return fmt.Errorf("failed to refresh comments count: %w", err)
	}
	return nil
}

// LikeComment 点赞评论。重复点赞为无操作，同样返回当前点赞数
func (s *CommentService) LikeComment(commentID uint, userID uint) (int64, error) {
	return s.toggleCommentLike(commentID, userID, true)
}

// UnlikeComment 取消点赞评论。未点赞时为无操作
func (s *CommentService) UnlikeComment(commentID uint, userID uint) (int64, error) {
	return s.toggleCommentLike(commentID, userID, false)
}

func (s *CommentService) toggleCommentLike(commentID uint, userID uint, like bool) (int64, error) {
	if s.db == nil {
		return 0, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var likesCount int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("id = ? AND status = ?", commentID, models.CommentStatusActive).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("comment not found")
			}
			return fmt.Errorf("failed to check comment existence: %w", err)
		}

		var existing models.CommentLike
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&existing).Error
		switch {
		case err == nil:
			if !like {
				if err := tx.Delete(&existing).Error; err != nil {
					return fmt.Errorf("failed to delete like record: %w", err)
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if like {
				record := models.CommentLike{CommentID: commentID, UserID: userID}
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("failed to create like record: %w", err)
				}
			}
		default:
			return fmt.Errorf("failed to check existing like: %w", err)
		}

		// 以关联表为准重算冗余计数
		if err := tx.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&likesCount).Error; err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}
		if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
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
