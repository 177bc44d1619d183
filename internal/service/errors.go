package service

import "errors"

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: email already registered")
	ErrPostNotFound         = errors.New("post not found")
	ErrForbidden            = errors.New("forbidden: admin access required")
	ErrDuplicateTitle       = errors.New("a post with this title already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInternalServer       = errors.New("internal server error")
)

// AdminUserID 是管理员的固定用户 ID。
// 管理员就是第一个注册的账号 (id == 1)，不是角色系统。
const AdminUserID uint = 1

// AuthorizeAdmin 是管理操作的显式能力检查：
// 只有管理员可以创建/编辑/删除文章，其余用户得到 ErrForbidden。
func AuthorizeAdmin(actorID uint) error {
	if actorID != AdminUserID {
		return ErrForbidden
	}
	return nil
}
