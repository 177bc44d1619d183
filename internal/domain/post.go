package domain

import "time"

// Post 表示一篇博客文章。
type Post struct {
	ID        uint      `gorm:"primaryKey"`                                       // 文章唯一标识符 (主键)
	Title     string    `gorm:"type:varchar(191);uniqueIndex:idx_title;not null"` // 标题，必须唯一且不能为空
	Subtitle  string    `gorm:"type:varchar(191);not null"`                       // 副标题，不能为空
	Date      string    `gorm:"type:varchar(191);not null"`                       // 发布日期的展示字符串，创建时赋值后不再变更
	Body      string    `gorm:"type:text;not null"`                               // 正文内容
	ImgURL    string    `gorm:"type:varchar(191);not null"`                       // 封面图片地址
	AuthorID  uint      `gorm:"index;not null"`                                   // 作者 ID (外键关联到 User.ID, 添加索引)
	CreatedAt time.Time `gorm:"autoCreateTime"`                                   // 记录创建时间 (GORM 自动填充)
}

// DateLayout 是 Post.Date 的格式，例如 "August 31, 2026"。
const DateLayout = "January 2, 2006"
