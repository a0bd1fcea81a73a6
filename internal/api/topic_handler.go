package api

import (
	"errors"
	"log"

	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/ForumHub/ForumHub-backend/internal/services"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// TopicHandler 结构体，用于封装与主题相关的 HTTP 请求处理逻辑
type TopicHandler struct {
	topicService *services.TopicService
	tagService   *services.TagService
}

// NewTopicHandler 创建并返回一个新的 TopicHandler 实例
func NewTopicHandler() *TopicHandler {
	return &TopicHandler{
		topicService: services.NewTopicService(),
		tagService:   services.NewTagService(),
	}
}

// GetTopics 获取主题列表，支持 category/tag/search/sort 筛选和分页
func (h *TopicHandler) GetTopics(c *gin.Context) {
	var query models.TopicQueryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	// 转换页码和每页大小为整数，并处理无效值
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	// 可选登录：有当前用户时列表携带 isLiked
	viewerID := optionalUserID(c)

	response, err := h.topicService.GetTopics(&query, viewerID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithPagination(c, response.Topics, response.Total, query.Page, query.PageSize, response.TotalPages)
}

// GetTopic 获取主题详情，同时累加浏览量
func (h *TopicHandler) GetTopic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	viewerID := optionalUserID(c)

	topic, err := h.topicService.GetTopicByID(id, viewerID)
	if err != nil {
		if err.Error() == "topic not found" {
			utils.NotFound(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, topic)
}

// IncrementViews 累加主题浏览量，失败仅记日志
func (h *TopicHandler) IncrementViews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.topicService.IncrementViews(id); err != nil {
		if err.Error() == "topic not found" {
			utils.NotFound(c, err.Error())
			return
		}
		// 浏览量尽力而为，其它失败不向客户端报错
		log.Printf("[WARN] failed to increment views for topic %d: %v", id, err)
	}

	utils.Success(c, gin.H{"message": "View count updated"})
}

// CreateTopic 创建主题
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req models.TopicCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	topic, err := h.topicService.CreateTopic(&req, userID)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, topic)
}

// UpdateTopic 更新主题，仅作者本人可操作
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.TopicUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	topic, err := h.topicService.UpdateTopic(id, &req, userID)
	if err != nil {
		switch err.Error() {
		case "topic not found":
			utils.NotFound(c, err.Error())
		case "permission denied: only topic author can update":
			utils.Forbidden(c, err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, topic)
}

// DeleteTopic 软删除主题，作者本人或管理员可操作
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role := c.GetString("role")

	if err := h.topicService.DeleteTopic(id, userID, role); err != nil {
		switch err.Error() {
		case "topic not found":
			utils.NotFound(c, err.Error())
		case "permission denied: only topic author can delete":
			utils.Forbidden(c, err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"message": "Topic deleted successfully"})
}

// LikeTopic 点赞主题，幂等
func (h *TopicHandler) LikeTopic(c *gin.Context) {
	h.toggleLike(c, true)
}

// UnlikeTopic 取消点赞主题，幂等
func (h *TopicHandler) UnlikeTopic(c *gin.Context) {
	h.toggleLike(c, false)
}

func (h *TopicHandler) toggleLike(c *gin.Context, like bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var likesCount int64
	var err error
	if like {
		likesCount, err = h.topicService.LikeTopic(id, userID)
	} else {
		likesCount, err = h.topicService.UnlikeTopic(id, userID)
	}
	if err != nil {
		if err.Error() == "topic not found" {
			utils.NotFound(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"likesCount": likesCount, "isLiked": like})
}

// SyncTopicTags 整体替换主题的标签集合，仅作者本人可操作
func (h *TopicHandler) SyncTopicTags(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.TagSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// 作者校验复用更新权限规则
	topic, err := h.topicService.GetTopicByID(id, nil)
	if err != nil {
		if err.Error() == "topic not found" {
			utils.NotFound(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}
	if topic.AuthorID != userID && c.GetString("role") != "admin" {
		utils.Forbidden(c, "permission denied: only topic author can update tags")
		return
	}

	tags, err := h.tagService.SyncTopicTags(id, req.Tags)
	if err != nil {
		switch {
		case err.Error() == "topic not found":
			utils.NotFound(c, err.Error())
		case errors.Is(err, services.ErrTagSyncConflict):
			utils.Conflict(c, err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"tags": tags})
}
