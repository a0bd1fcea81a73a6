package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ForumHub/ForumHub-backend/internal/cache"
	"github.com/ForumHub/ForumHub-backend/internal/database"
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
	"gorm.io/gorm"
)

// UserService 结构体，用于封装与用户相关的数据库操作和业务逻辑
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建并返回一个新的 UserService 实例
func NewUserService() *UserService {
	return &UserService{
		db: database.GetDB(),
	}
}

// Register 注册新用户，用户名和邮箱均需唯一
func (s *UserService) Register(req *models.RegisterRequest) (*models.UserResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	if !utils.IsValidUsername(req.Username) {
		return nil, errors.New("invalid username format")
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, errors.New("invalid email format")
	}
	if !utils.IsValidPassword(req.Password) {
		return nil, errors.New("password does not meet strength requirements")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if count > 0 {
		return nil, errors.New("username or email already exists")
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     "user",
		Status:   "active",
	}

	// BeforeCreate 钩子负责密码哈希
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("username or email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	response := user.ToResponse()
	return &response, nil
}

// Login 校验用户名密码，成功后签发JWT令牌
func (s *UserService) Login(req *models.LoginRequest) (string, *models.UserResponse, error) {
	if s.db == nil {
		return "", nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户不存在和密码错误返回同一文案，不泄露账号存在性
			return "", nil, errors.New("invalid username or password")
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Status != "active" {
		return "", nil, errors.New("user account is disabled")
	}

	if !user.CheckPassword(req.Password) {
		return "", nil, errors.New("invalid username or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	response := user.ToResponse()
	return token, &response, nil
}

// Logout 将令牌加入黑名单直至其自然过期。未配置 Redis 时登出
// 仅由客户端丢弃令牌，服务端不做失效
func (s *UserService) Logout(tokenString string) error {
	redisCache := cache.GetRedisCache()
	if redisCache == nil {
		return nil
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return errors.New("invalid token")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := redisCache.BlacklistToken(ctx, tokenString, ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// GetUserByID 获取用户公开信息
func (s *UserService) GetUserByID(id uint) (*models.UserResponse, error) {
	if s.db == nil {
		return nil, errors.New("database connection not initialized")
	}

	ctx, cancel := queryContext()
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	response := user.ToResponse()
	return &response, nil
}
