package domain

import "time"

// Comment 表示某篇文章下的一条评论。
type Comment struct {
	ID        uint      `gorm:"primaryKey"`         // 评论唯一标识符 (主键)
	Text      string    `gorm:"type:text;not null"` // 评论内容，不能为空
	AuthorID  uint      `gorm:"index;not null"`     // 评论者 ID (外键关联到 User.ID, 添加索引)
	PostID    uint      `gorm:"index;not null"`     // 所属文章 ID (外键关联到 Post.ID, 添加索引)
	CreatedAt time.Time `gorm:"autoCreateTime"`     // 评论创建时间 (GORM 自动填充)
}

// CommentView 是文章详情页使用的读模型：
// 评论本身加上作者的展示信息，由查询时 JOIN 得到，
// 避免在模型之间维护双向关联。
type CommentView struct {
	ID         uint   // 评论 ID
	Text       string // 评论内容
	AuthorName string // 作者显示名称
	AvatarURL  string // 作者头像地址 (由邮箱计算)
}
