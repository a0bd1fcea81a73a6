package api

import (
	"github.com/ForumHub/ForumHub-backend/internal/ai"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AIHandler 结构体，用于封装AI标签建议相关的 HTTP 请求处理逻辑
type AIHandler struct {
	aiService *ai.AIService
}

// NewAIHandler 创建并返回一个新的 AIHandler 实例，
// AI 功能未启用时 aiService 为 nil
func NewAIHandler(aiService *ai.AIService) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

type suggestTagsRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
}

// SuggestTags 根据主题标题和内容生成标签建议，结果仅供前端展示
func (h *AIHandler) SuggestTags(c *gin.Context) {
	if h.aiService == nil {
		utils.Error(c, 503, "AI features are not enabled")
		return
	}

	var req suggestTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	tags, err := h.aiService.SuggestTags(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"tags": tags})
}
