package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 对应数据库中的 'users' 表
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"` // 用户名，唯一
	Email    string `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`   // 邮箱，唯一
	Password string `json:"-" gorm:"type:varchar(255);not null"`                   // 密码哈希，JSON输出时忽略
	Avatar   string `json:"avatar" gorm:"type:varchar(500)"`                       // 头像URL
	Role     string `json:"role" gorm:"type:varchar(20);default:'user'"`           // 角色 user/admin
	Status   string `json:"status" gorm:"type:varchar(20);default:'active'"`       // 状态 active/banned

	// GORM 自动维护的时间戳
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate 创建用户前自动加密密码
func (u *User) BeforeCreate(tx *gorm.DB) error {
	return u.HashPassword()
}

// HashPassword 使用 bcrypt 加密密码
func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword 校验明文密码与哈希是否匹配
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// UserResponse 用于向前端返回用户信息时，过滤掉敏感字段
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest 用户注册请求体
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=20"`
}

// LoginRequest 用户登录请求体
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func (User) TableName() string {
	return "users"
}
