package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/ForumHub/ForumHub-backend/internal/utils"
)

// queryTimeout 单次数据库调用的统一超时时间，超时按普通失败处理，本层不做重试
const queryTimeout = 5 * time.Second

// defaultPageSize 分页大小缺省值
const defaultPageSize = 20

// queryContext 为一次数据库调用生成带超时的上下文
func queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}

// queryCondition 一条 WHERE 片段和它的参数。片段与参数成对存放、统一装配，
// 数据查询和计数查询共用同一份列表，从根上杜绝两边占位符错位
type queryCondition struct {
	expr string
	args []interface{}
}

// topicQueryBuilder 把可选筛选集 {分类, 标签, 搜索词, 当前用户} 组装成
// 主题列表的数据查询和结构一致的计数查询。
//
// 参数顺序约定（固定且两条查询各自独立，绝不复用位置）：
//   - 数据查询：SELECT 子句先拼装，所以 viewer 参数永远排在所有 WHERE 参数之前；
//   - 计数查询：不含 viewer 片段，参数即 WHERE 参数，与数据查询的 WHERE 逐位一致。
type topicQueryBuilder struct {
	conds       []queryCondition
	joins       []string
	needGroupBy bool
	viewerID    *uint
	sort        string
	page        int
	pageSize    int
}

func newTopicQueryBuilder(query *models.TopicQueryRequest, viewerID *uint) *topicQueryBuilder {
	b := &topicQueryBuilder{
		viewerID: viewerID,
		sort:     query.Sort,
		page:     query.Page,
		pageSize: query.PageSize,
	}

	// 页码与分页大小强制为正整数
	if b.page < 1 {
		b.page = 1
	}
	if b.pageSize < 1 {
		b.pageSize = defaultPageSize
	}

	// 软删除的主题不进入任何公开列表
	b.where("topics.status = ?", models.TopicStatusActive)

	if query.Category != "" {
		// 分类名精确匹配，不做大小写归一
		b.where("topics.category = ?", query.Category)
	}

	if query.Tag != "" {
		b.joins = append(b.joins,
			"JOIN topic_tags ON topic_tags.topic_id = topics.id",
			"JOIN tags ON tags.id = topic_tags.tag_id",
		)
		// 纯数字按标签ID匹配，否则按标签名匹配；未命中的分支填入必然
		// 不匹配的值，保证两个分支的参数个数一致
		if utils.IsNumeric(query.Tag) {
			tagID, _ := strconv.ParseUint(query.Tag, 10, 64)
			b.where("(tags.id = ? OR tags.name = ?)", tagID, "")
		} else {
			b.where("(tags.id = ? OR tags.name = ?)", 0, query.Tag)
		}
		// 一个主题可命中多条关联，需要按主题去重
		b.needGroupBy = true
	}

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		b.where("(topics.title ILIKE ? OR topics.content ILIKE ?)", pattern, pattern)
	}

	return b
}

func (b *topicQueryBuilder) where(expr string, args ...interface{}) {
	b.conds = append(b.conds, queryCondition{expr: expr, args: args})
}

// whereClause 返回 AND 连接的 WHERE 文本和按片段顺序排列的参数
func (b *topicQueryBuilder) whereClause() (string, []interface{}) {
	exprs := make([]string, 0, len(b.conds))
	var args []interface{}
	for _, cond := range b.conds {
		exprs = append(exprs, cond.expr)
		args = append(args, cond.args...)
	}
	return strings.Join(exprs, " AND "), args
}

func (b *topicQueryBuilder) orderClause() string {
	switch b.sort {
	case "hot":
		// 热门优先，同为热门按点赞数，再按创建时间逐级决胜
		return "topics.is_hot DESC, likes_count DESC, topics.created_at DESC"
	case "official":
		return "topics.is_official DESC, topics.created_at DESC"
	default:
		// 未识别的排序值回落到 latest
		return "topics.created_at DESC"
	}
}

// DataQuery 生成数据查询及其完整参数列表
func (b *topicQueryBuilder) DataQuery() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT topics.id, topics.title, topics.content, topics.category, ")
	sb.WriteString("topics.author_id, topics.status, topics.views, topics.is_hot, topics.is_official, ")
	sb.WriteString("topics.created_at, topics.updated_at, ")
	sb.WriteString("users.username AS author_name, users.avatar AS author_avatar, ")
	sb.WriteString("(SELECT COUNT(*) FROM topic_likes WHERE topic_likes.topic_id = topics.id) AS likes_count, ")
	sb.WriteString("(SELECT COUNT(*) FROM comments WHERE comments.topic_id = topics.id AND comments.status = 'active') AS comments_count")

	// is_liked 片段只在有登录用户时出现，其参数因 SELECT 先拼装而位于参数列表首位
	if b.viewerID != nil {
		sb.WriteString(", (SELECT COUNT(*) FROM topic_likes WHERE topic_likes.topic_id = topics.id AND topic_likes.user_id = ?) > 0 AS is_liked")
		args = append(args, *b.viewerID)
	}

	sb.WriteString(" FROM topics LEFT JOIN users ON users.id = topics.author_id")
	for _, join := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}

	whereText, whereArgs := b.whereClause()
	sb.WriteString(" WHERE ")
	sb.WriteString(whereText)
	args = append(args, whereArgs...)

	if b.needGroupBy {
		// users.id 是主键，users 列对它函数依赖，按两个主键分组即可去重
		sb.WriteString(" GROUP BY topics.id, users.id")
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(b.orderClause())
	sb.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", b.pageSize, (b.page-1)*b.pageSize))

	return sb.String(), args
}

// CountQuery 生成与数据查询谓词逐位一致的计数查询；
// 标签联查会使行数膨胀，此时按主题ID去重计数
func (b *topicQueryBuilder) CountQuery() (string, []interface{}) {
	var sb strings.Builder

	if b.needGroupBy {
		sb.WriteString("SELECT COUNT(DISTINCT topics.id)")
	} else {
		sb.WriteString("SELECT COUNT(*)")
	}

	sb.WriteString(" FROM topics")
	for _, join := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}

	whereText, whereArgs := b.whereClause()
	sb.WriteString(" WHERE ")
	sb.WriteString(whereText)

	return sb.String(), whereArgs
}

// Page 返回强制到合法范围后的页码和分页大小
func (b *topicQueryBuilder) Page() (int, int) {
	return b.page, b.pageSize
}

// totalPages 按 ceil(total/pageSize) 计算总页数
func totalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// logQueryFailure 记录失败查询的SQL文本与参数个数。
// 参数值不落日志，避免把可能的敏感输入写进日志
func logQueryFailure(op, sql string, argCount int, err error) {
	log.Printf("[QUERY ERROR] %s: %v (sql=%q, args=%d)", op, err, sql, argCount)
}

// topicListRow 数据查询的一行扫描目标，含聚合列与作者展示列
type topicListRow struct {
	ID            uint
	Title         string
	Content       string
	Category      string
	AuthorID      uint
	Status        string
	Views         int64
	IsHot         bool
	IsOfficial    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	AuthorName    string
	AuthorAvatar  string
	LikesCount    int64
	CommentsCount int64
	IsLiked       bool
}

func (r *topicListRow) toResponse(tags []models.TagResponse) models.TopicResponse {
	if tags == nil {
		tags = []models.TagResponse{}
	}
	return models.TopicResponse{
		ID:            r.ID,
		Title:         r.Title,
		Content:       r.Content,
		Category:      r.Category,
		AuthorID:      r.AuthorID,
		AuthorName:    r.AuthorName,
		AuthorAvatar:  r.AuthorAvatar,
		Views:         r.Views,
		LikesCount:    r.LikesCount,
		CommentsCount: r.CommentsCount,
		IsLiked:       r.IsLiked,
		IsHot:         r.IsHot,
		IsOfficial:    r.IsOfficial,
		Tags:          tags,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
