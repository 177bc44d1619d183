package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MiltonKlun/blog-post/internal/domain"
	httpHandler "github.com/MiltonKlun/blog-post/internal/handler/http"
	gormpersistence "github.com/MiltonKlun/blog-post/internal/infra/persistence/gorm"
	"github.com/MiltonKlun/blog-post/internal/infra/setup"
	"github.com/MiltonKlun/blog-post/internal/middleware"
	"github.com/MiltonKlun/blog-post/internal/service"
	"github.com/MiltonKlun/blog-post/internal/session"
)

// newTestServer 用内存 SQLite 组装一个与 bootstrap 相同路由的测试服务。
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := setup.InitDB(":memory:")
	require.NoError(t, err, "内存数据库应能打开")
	require.NoError(t, setup.MigrateDB(db), "迁移不应失败")

	userRepo := gormpersistence.NewGormUserRepository(db)
	postRepo := gormpersistence.NewGormPostRepository(db)
	commentRepo := gormpersistence.NewGormCommentRepository(db)

	authService := service.NewAuthService(userRepo)
	postService := service.NewPostService(postRepo, commentRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)
	sessions := session.NewManager("test-secret-key")

	authHandler := httpHandler.NewAuthHandler(authService, sessions)
	postHandler := httpHandler.NewPostHandler(postService, sessions)
	commentHandler := httpHandler.NewCommentHandler(commentService, sessions)
	pageHandler := httpHandler.NewPageHandler(postService, sessions)

	router := gin.New()
	router.Use(middleware.CurrentUser(sessions))
	router.LoadHTMLGlob("../../../web/templates/*.html")

	loginRequired := middleware.RequireLogin(sessions, "You need to login.")
	commentLogin := middleware.RequireLogin(sessions, "You need to login to comment.")

	router.GET("/", pageHandler.Home)
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", loginRequired, authHandler.Logout)
	router.GET("/post/:id", postHandler.Show)
	router.POST("/post/:id", commentLogin, commentHandler.Add)
	router.GET("/new-post", loginRequired, postHandler.ShowNew)
	router.POST("/new-post", loginRequired, postHandler.Create)
	router.GET("/edit-post/:id", loginRequired, postHandler.ShowEdit)
	router.POST("/edit-post/:id", loginRequired, postHandler.Update)
	router.GET("/delete/:id", loginRequired, postHandler.Delete)

	return router, db
}

// postForm 发送表单 POST，附带可选的会话 Cookie
func postForm(router *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	router.ServeHTTP(w, req)
	return w
}

// get 发送 GET 请求，附带可选的会话 Cookie
func get(router *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	router.ServeHTTP(w, req)
	return w
}

// register 注册一个用户并返回登录会话 Cookie (注册成功即登录)
func register(t *testing.T, router *gin.Engine, name, email, password string) []*http.Cookie {
	t.Helper()
	w := postForm(router, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code, "注册成功应重定向到首页")
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "注册成功应建立会话")
	return cookies
}

// createPost 以管理员身份创建一篇文章并返回其 ID
func createPost(t *testing.T, router *gin.Engine, db *gorm.DB, admin []*http.Cookie, title string) uint {
	t.Helper()
	w := postForm(router, "/new-post", url.Values{
		"title":    {title},
		"subtitle": {"sub"},
		"body":     {"body text"},
		"img_url":  {"https://example.com/img.jpg"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, w.Code, "管理员创建文章应重定向到首页")

	var post domain.Post
	require.NoError(t, db.Where("title = ?", title).First(&post).Error)
	return post.ID
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	router, db := newTestServer(t)

	register(t, router, "Ada", "ada@example.com", "pw123456")

	// 同一邮箱再次注册：重新渲染表单，用户数不变
	w := postForm(router, "/register", url.Values{
		"name":     {"Imposter"},
		"email":    {"ada@example.com"},
		"password": {"other"},
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, "冲突时重新渲染注册表单而不是重定向")

	var count int64
	db.Model(&domain.User{}).Count(&count)
	assert.Equal(t, int64(1), count, "重复注册不应创建新用户")
}

func TestLogin_WrongCredentialsUniform(t *testing.T) {
	router, _ := newTestServer(t)
	register(t, router, "Ada", "ada@example.com", "pw123456")

	// 错误密码和未知邮箱都回到登录表单，且不建立会话
	for _, form := range []url.Values{
		{"email": {"ada@example.com"}, "password": {"wrong"}},
		{"email": {"ghost@example.com"}, "password": {"whatever"}},
	} {
		w := postForm(router, "/login", form, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		// 用返回的 Cookie 访问需要登录的端点：应被重定向到登录页，说明没有会话
		probe := get(router, "/logout", w.Result().Cookies())
		assert.Equal(t, http.StatusSeeOther, probe.Code)
		assert.Equal(t, "/login", probe.Header().Get("Location"), "失败的登录不应建立会话")
	}
}

func TestAdminGuard_OnProtectedRoutes(t *testing.T) {
	router, db := newTestServer(t)

	admin := register(t, router, "Admin", "admin@example.com", "pw123456") // id 1
	other := register(t, router, "Reader", "reader@example.com", "pw123456")

	postID := createPost(t, router, db, admin, "Guarded Post")

	// 管理员 (id 1) 可以访问三个管理端点
	assert.Equal(t, http.StatusOK, get(router, "/new-post", admin).Code)
	assert.Equal(t, http.StatusOK, get(router, "/edit-post/1", admin).Code)

	// 非管理员登录用户在三个端点都得到 403
	assert.Equal(t, http.StatusForbidden, get(router, "/new-post", other).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/edit-post/1", other).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/delete/1", other).Code)

	// 文章仍然存在
	var count int64
	db.Model(&domain.Post{}).Where("id = ?", postID).Count(&count)
	assert.Equal(t, int64(1), count, "非管理员的删除尝试不应生效")
}

func TestComment_RequiresLogin(t *testing.T) {
	router, db := newTestServer(t)
	admin := register(t, router, "Admin", "admin@example.com", "pw123456")
	createPost(t, router, db, admin, "Open Post")

	// 匿名提交评论：重定向到登录页，不创建评论行
	w := postForm(router, "/post/1", url.Values{"comment": {"anonymous words"}}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"), "匿名评论应被引导到登录页")

	var count int64
	db.Model(&domain.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count, "匿名评论不应写入数据库")

	// 登录用户提交评论：创建成功并在详情页可见
	reader := register(t, router, "Reader", "reader@example.com", "pw123456")
	w = postForm(router, "/post/1", url.Values{"comment": {"logged-in words"}}, reader)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"), "评论成功应回到同一篇文章")

	detail := get(router, "/post/1", nil)
	assert.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "logged-in words", "新评论应出现在详情页")
	assert.Contains(t, detail.Body.String(), "Reader", "评论应带作者名字")
}

func TestComment_EmptyText(t *testing.T) {
	router, db := newTestServer(t)
	admin := register(t, router, "Admin", "admin@example.com", "pw123456")
	createPost(t, router, db, admin, "Quiet Post")

	// 已登录但评论为空：闪现提示并回到详情页，不创建评论行
	w := postForm(router, "/post/1", url.Values{"comment": {"   "}}, admin)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"))

	var count int64
	db.Model(&domain.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count, "空评论不应写入数据库")

	// 已登录、评论为空、文章又不存在：直接 404，而不是重定向进一个 404 页
	w = postForm(router, "/post/999", url.Values{"comment": {""}}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code, "不存在的文章应直接返回 404")
}

func TestDeletePost_CascadesComments(t *testing.T) {
	router, db := newTestServer(t)
	admin := register(t, router, "Admin", "admin@example.com", "pw123456")
	postID := createPost(t, router, db, admin, "Doomed Post")

	// 管理员自己评论两条
	postForm(router, "/post/1", url.Values{"comment": {"first"}}, admin)
	postForm(router, "/post/1", url.Values{"comment": {"second"}}, admin)

	var before int64
	db.Model(&domain.Comment{}).Where("post_id = ?", postID).Count(&before)
	require.Equal(t, int64(2), before)

	// 删除文章
	w := get(router, "/delete/1", admin)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	// 文章和评论都被清掉，没有孤儿
	var posts, comments int64
	db.Model(&domain.Post{}).Count(&posts)
	db.Model(&domain.Comment{}).Count(&comments)
	assert.Equal(t, int64(0), posts, "文章应被删除")
	assert.Equal(t, int64(0), comments, "删除文章必须级联清理评论")
}

func TestCreatePost_DuplicateTitleRejected(t *testing.T) {
	router, db := newTestServer(t)
	admin := register(t, router, "Admin", "admin@example.com", "pw123456")
	createPost(t, router, db, admin, "Unique Title")

	// 同名标题再创建：重新渲染表单，不产生重复行
	w := postForm(router, "/new-post", url.Values{
		"title":    {"Unique Title"},
		"subtitle": {"another sub"},
		"body":     {"another body"},
		"img_url":  {"https://example.com/other.jpg"},
	}, admin)
	assert.Equal(t, http.StatusOK, w.Code, "标题冲突应重新渲染表单")

	var count int64
	db.Model(&domain.Post{}).Where("title = ?", "Unique Title").Count(&count)
	assert.Equal(t, int64(1), count, "不应创建重复标题的文章")
}

func TestShowPost_NotFound(t *testing.T) {
	router, _ := newTestServer(t)

	// 不存在的 ID 必须是明确的 404，而不是崩溃
	w := get(router, "/post/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 非数字 ID 同样按未找到处理
	w = get(router, "/post/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
