package service_test // 测试包

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MiltonKlun/blog-post/internal/domain"
	"github.com/MiltonKlun/blog-post/internal/repository"
	"github.com/MiltonKlun/blog-post/internal/repository/mocks"
	"github.com/MiltonKlun/blog-post/internal/service"
)

// --- 测试 Register 方法 ---

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange: 准备 Mock 对象, Service 实例, 和测试数据
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)

	ctx := context.Background()
	name := "Ada"
	email := "ada@example.com"
	password := "StrongPass123"

	// 设置 Mock 预期:
	// 1. 快路径检查：邮箱不存在
	mockUserRepo.On("FindByEmail", ctx, email).
		Return(nil, repository.ErrUserNotFound).
		Once()

	// 2. Create 成功，并由数据库填充 ID
	// 注意：匹配器必须无副作用——AssertExpectations 会对同一指针再次调用它，
	// 而那时 Register 已清除 Password 字段，所以哈希在 Run 回调里拷贝出来再断言
	var savedPassword string
	mockUserRepo.On("Create", ctx, mock.MatchedBy(func(user *domain.User) bool {
		return user.Name == name && user.Email == email
	})).
		Run(func(args mock.Arguments) {
			userArg := args.Get(1).(*domain.User)
			savedPassword = userArg.Password // 拷贝哈希供 Act 之后断言
			userArg.ID = 5                   // 模拟数据库分配主键
		}).
		Return(nil).
		Once()

	// Act
	user, err := authService.Register(ctx, name, email, password)

	// Assert
	assert.NoError(t, err, "成功注册时不应有错误")
	require.NotNil(t, user, "成功注册时应返回用户对象")
	assert.Equal(t, uint(5), user.ID)
	assert.Empty(t, user.Password, "返回的用户密码应为空")
	// 验证持久化的密码已被哈希，绝不存明文
	assert.NotEqual(t, password, savedPassword, "密码不能以明文存储")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedPassword), []byte(password)), "密码应被正确哈希")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()
	email := "taken@example.com"

	// 设置 Mock 预期: 邮箱已被注册
	existing := &domain.User{ID: 10, Email: email}
	mockUserRepo.On("FindByEmail", ctx, email).Return(existing, nil).Once()

	// Act
	_, err := authService.Register(ctx, "Someone", email, "password")

	// Assert: 冲突被拒绝，且没有创建新行
	require.Error(t, err, "邮箱已存在时应返回错误")
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed), "错误类型应为 ErrRegistrationFailed")

	mockUserRepo.AssertExpectations(t)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	// Arrange: 模拟两个并发注册竞争——快路径检查通过，
	// 但唯一索引在 Create 时拒绝 (权威判定)
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()
	email := "race@example.com"

	mockUserRepo.On("FindByEmail", ctx, email).Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	// Act
	_, err := authService.Register(ctx, "Racer", email, "password")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed), "唯一约束冲突应映射为 ErrRegistrationFailed")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_BlankFields(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()

	// Act / Assert: 任一必填字段为空都直接拒绝，不触达仓库
	for _, tc := range []struct{ name, email, password string }{
		{"", "a@b.com", "pw"},
		{"Ada", "", "pw"},
		{"Ada", "a@b.com", ""},
	} {
		_, err := authService.Register(ctx, tc.name, tc.email, tc.password)
		assert.True(t, errors.Is(err, service.ErrInvalidInput), "空字段应返回 ErrInvalidInput")
	}
	mockUserRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- 测试 Login 方法 ---

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()
	email := "user@example.com"
	password := "password123"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Name: "User", Email: email, Password: string(hashed)}

	mockUserRepo.On("FindByEmail", ctx, email).Return(userInDb, nil).Once()

	// Act
	user, err := authService.Login(ctx, email, password)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, uint(1), user.ID)
	assert.Empty(t, user.Password, "返回的用户密码应为空")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	// Arrange: 未知邮箱和错误密码必须得到同一个错误，避免账号枚举
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	known := &domain.User{ID: 2, Email: "known@example.com", Password: string(hashed)}

	mockUserRepo.On("FindByEmail", ctx, "unknown@example.com").Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("FindByEmail", ctx, "known@example.com").Return(known, nil).Once()

	// Act
	_, errUnknown := authService.Login(ctx, "unknown@example.com", "whatever")
	_, errWrongPw := authService.Login(ctx, "known@example.com", "wrongpassword")

	// Assert: 两种失败对调用方完全一致
	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.True(t, errors.Is(errUnknown, service.ErrAuthenticationFailed))
	assert.True(t, errors.Is(errWrongPw, service.ErrAuthenticationFailed))
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error(), "两种失败的对外信息必须一致")

	mockUserRepo.AssertExpectations(t)
}
