package api

import (
	"strconv"

	"github.com/ForumHub/ForumHub-backend/internal/ai"
	"github.com/ForumHub/ForumHub-backend/internal/middleware"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(aiService *ai.AIService) *gin.Engine {
	r := gin.Default()

	// add cors middleware
	r.Use(middleware.CORSMiddleware())

	// health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "ForumHub backend is running",
		})
	})

	// initialize handler
	userHandler := NewUserHandler()
	topicHandler := NewTopicHandler()
	commentHandler := NewCommentHandler()
	tagHandler := NewTagHandler()
	categoryHandler := NewCategoryHandler()
	aiHandler := NewAIHandler(aiService)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// public routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/logout", middleware.AuthMiddleware(), userHandler.Logout)
		}

		// user routes
		user := v1.Group("/user")
		user.Use(middleware.AuthMiddleware())
		{
			user.GET("/profile", userHandler.GetProfile)
		}
		v1.GET("/users/:id", userHandler.GetUser)

		// topic routes
		topics := v1.Group("/topics")
		{
			// 公开路由：可选登录，带令牌时列表携带 isLiked
			topics.GET("", middleware.OptionalAuthMiddleware(), topicHandler.GetTopics)
			topics.GET("/:id", middleware.OptionalAuthMiddleware(), topicHandler.GetTopic)
			topics.GET("/:id/comments", middleware.OptionalAuthMiddleware(), commentHandler.GetCommentsByTopicID)
			topics.GET("/:id/tags", tagHandler.GetTopicTags)
			topics.POST("/:id/view", topicHandler.IncrementViews)

			// 需要身份验证的路由
			authTopics := topics.Group("")
			authTopics.Use(middleware.AuthMiddleware())
			{
				authTopics.POST("", topicHandler.CreateTopic)
				authTopics.PUT("/:id", topicHandler.UpdateTopic)
				authTopics.DELETE("/:id", topicHandler.DeleteTopic)
				authTopics.POST("/:id/like", topicHandler.LikeTopic)
				authTopics.DELETE("/:id/like", topicHandler.UnlikeTopic)
				authTopics.PUT("/:id/tags", topicHandler.SyncTopicTags)
			}
		}

		// comment routes
		comments := v1.Group("/comments")
		comments.Use(middleware.AuthMiddleware())
		{
			comments.POST("", commentHandler.CreateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
			comments.POST("/:id/like", commentHandler.LikeComment)
			comments.DELETE("/:id/like", commentHandler.UnlikeComment)
		}

		// tag and category routes
		v1.GET("/tags", tagHandler.GetTags)
		v1.GET("/categories", categoryHandler.GetCategories)

		// ai routes
		aiGroup := v1.Group("/ai")
		aiGroup.Use(middleware.AuthMiddleware())
		{
			aiGroup.POST("/suggest-tags", aiHandler.SuggestTags)
		}

		// admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/categories", categoryHandler.CreateCategory)
			admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
			admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
			admin.DELETE("/tags/:id", tagHandler.DeleteTag)
		}
	}

	return r
}

// currentUserID 从 Gin 上下文取当前登录用户ID，缺失时直接写响应
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return 0, false
	}
	id, ok := userID.(uint)
	if !ok {
		utils.InternalServerError(c, "Failed to get user ID from context")
		return 0, false
	}
	return id, true
}

// optionalUserID 可选登录接口使用：无当前用户时返回 nil
func optionalUserID(c *gin.Context) *uint {
	userID, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := userID.(uint)
	if !ok {
		return nil
	}
	return &id
}

// parseIDParam 解析 URL 路径中的数字ID参数，非法时直接写响应
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}
