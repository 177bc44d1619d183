package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/MiltonKlun/blog-post/internal/domain"
	"github.com/MiltonKlun/blog-post/internal/repository"
)

// AuthService 负责用户注册与登录相关的业务逻辑。
// 会话本身由 handler 层的 session.Manager 建立，这里只做身份判定。
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService 创建 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	return &AuthService{userRepo: userRepo}
}

// Register 处理用户注册。
// 邮箱已被占用时返回 ErrRegistrationFailed；成功时返回新用户 (密码已清除)。
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	logCtx := logrus.WithField("email", email)

	// 1. 基本验证 (邮箱格式由表单绑定层负责)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidInput
	}

	// 2. 快路径存在性检查，只是给用户友好的提示；
	//    权威判定是 users.email 上的唯一索引 (见下面对 ErrDuplicateEntry 的处理)，
	//    两个并发注册最多一个能通过索引
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error checking existing email")
		return nil, ErrInternalServer
	}
	if existing != nil {
		logCtx.Warn("Registration failed: email already registered")
		return nil, ErrRegistrationFailed
	}

	// 3. 哈希密码
	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	// 4. 保存用户 (调用 Repository 接口)
	user := &domain.User{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: hashedPassword,
	}
	err = s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// 并发注册与快路径检查之间的竞争在这里收口
			logCtx.WithError(err).Warn("Registration failed: email already exists (unique index)")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = "" // 清除密码哈希再返回
	return user, nil
}

// Login 处理用户登录。
// 未知邮箱和错误密码统一返回 ErrAuthenticationFailed，避免账号枚举。
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	logCtx := logrus.WithField("email", email)

	// 1. 查找用户
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: error finding user")
		}
		return nil, ErrAuthenticationFailed // 对客户端统一返回认证失败
	}
	// 防御性检查，以防仓库实现返回 nil, nil
	if user == nil {
		logCtx.Warn("Login attempt failed: repo returned nil user without error")
		return nil, ErrAuthenticationFailed
	}

	// 2. 验证密码
	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return nil, ErrAuthenticationFailed
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	user.Password = ""
	return user, nil
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
