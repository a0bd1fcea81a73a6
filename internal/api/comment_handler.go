package api

import (
	"strconv"

	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/ForumHub/ForumHub-backend/internal/services"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// CommentHandler 结构体，用于封装与评论相关的 HTTP 请求处理逻辑
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler 创建并返回一个新的 CommentHandler 实例
func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		commentService: services.NewCommentService(),
	}
}

// CreateComment 创建评论，支持楼中楼回复
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	comment, err := h.commentService.CreateComment(&req, userID)
	if err != nil {
		switch err.Error() {
		case "topic not found", "parent comment not found":
			utils.NotFound(c, err.Error())
		case "parent comment belongs to a different topic":
			utils.BadRequest(c, err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, comment)
}

// GetCommentsByTopicID 获取主题下的评论列表，按楼层顺序分页
func (h *CommentHandler) GetCommentsByTopicID(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// 获取查询参数中的页码和每页大小，并设置默认值
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}

	viewerID := optionalUserID(c)

	response, err := h.commentService.GetCommentsByTopicID(topicID, page, size, viewerID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithPagination(c, response.Comments, response.Total, page, size, response.TotalPages)
}

// DeleteComment 软删除评论，作者本人或管理员可操作
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role := c.GetString("role")

	if err := h.commentService.DeleteComment(id, userID, role); err != nil {
		switch err.Error() {
		case "comment not found":
			utils.NotFound(c, err.Error())
		case "permission denied: only comment author can delete":
			utils.Forbidden(c, err.Error())
		default:
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"message": "Comment deleted successfully"})
}

// LikeComment 点赞评论，幂等
func (h *CommentHandler) LikeComment(c *gin.Context) {
	h.toggleLike(c, true)
}

// UnlikeComment 取消点赞评论，幂等
func (h *CommentHandler) UnlikeComment(c *gin.Context) {
	h.toggleLike(c, false)
}

func (h *CommentHandler) toggleLike(c *gin.Context, like bool) {
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
		likesCount, err = h.commentService.LikeComment(id, userID)
	} else {
		likesCount, err = h.commentService.UnlikeComment(id, userID)
	}
	if err != nil {
		if err.Error() == "comment not found" {
			utils.NotFound(c, err.Error())
		} else {
			utils.InternalServerError(c, err.Error())
		}
		return
	}

	utils.Success(c, gin.H{"likesCount": likesCount, "isLiked": like})
}
