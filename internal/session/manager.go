// Package session 封装基于签名 Cookie 的登录态与闪现消息。
// 会话只存用户 ID，作用域为单个浏览器；密钥来自 SECRET_KEY 环境变量。
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	cookieName = "blog_session"
	userIDKey  = "user_id"
)

// Manager 管理登录会话和闪现消息。
type Manager struct {
	store *sessions.CookieStore
}

// NewManager 创建 Manager 实例。secretKey 用于 Cookie 签名，必须提供。
func NewManager(secretKey string) *Manager {
	if secretKey == "" {
		panic("secret key cannot be empty for session Manager")
	}
	store := sessions.NewCookieStore([]byte(secretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// CurrentUserID 返回当前请求的登录用户 ID。
// 未登录时第二个返回值为 false。
func (m *Manager) CurrentUserID(r *http.Request) (uint, bool) {
	// CookieStore.Get 对签名无效的 Cookie 返回错误和一个新的空会话，
	// 这里按未登录处理即可
	s, err := m.store.Get(r, cookieName)
	if err != nil {
		logrus.WithError(err).Debug("Session: invalid cookie, treating as anonymous")
		return 0, false
	}
	id, ok := s.Values[userIDKey].(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// SetUser 建立登录会话。
func (m *Manager) SetUser(w http.ResponseWriter, r *http.Request, userID uint) error {
	s, _ := m.store.Get(r, cookieName)
	s.Values[userIDKey] = userID
	return s.Save(r, w)
}

// Clear 结束登录会话。
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, cookieName)
	delete(s.Values, userIDKey)
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// AddFlash 追加一条闪现消息，在下一次渲染时展示一次。
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	s, _ := m.store.Get(r, cookieName)
	s.AddFlash(message)
	return s.Save(r, w)
}

// Flashes 取出并消费全部闪现消息。
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s, _ := m.store.Get(r, cookieName)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	// Flashes 会从会话中移除消息，必须保存才能真正消费掉
	if err := s.Save(r, w); err != nil {
		logrus.WithError(err).Warn("Session: failed to save after consuming flashes")
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
