package api

import (
	"github.com/ForumHub/ForumHub-backend/internal/services"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// TagHandler 结构体，用于封装与标签相关的 HTTP 请求处理逻辑
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler 创建并返回一个新的 TagHandler 实例
func NewTagHandler() *TagHandler {
	return &TagHandler{
		tagService: services.NewTagService(),
	}
}

// GetTags 获取全部标签
func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.tagService.GetAllTags()
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Success(c, tags)
}

// GetTopicTags 获取主题当前的标签列表
func (h *TagHandler) GetTopicTags(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tags, err := h.tagService.GetTopicTags(topicID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Success(c, tags)
}

// DeleteTag 删除标签及其所有主题关联（管理员功能）
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tagService.DeleteTag(id); err != nil {
		if err.Error() == "tag not found" {
			utils.NotFound(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"message": "Tag deleted successfully"})
}
