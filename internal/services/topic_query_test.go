package services

import (
	"strings"
	"testing"

	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestTopicQueryBuilder_NoFilters(t *testing.T) {
	b := newTopicQueryBuilder(&models.TopicQueryRequest{}, nil)

	dataSQL, dataArgs := b.DataQuery()
	assert.Contains(t, dataSQL, "topics.status = ?")
	assert.NotContains(t, dataSQL, "is_liked")
	assert.NotContains(t, dataSQL, "GROUP BY")
	assert.Contains(t, dataSQL, "ORDER BY topics.created_at DESC")
	assert.Contains(t, dataSQL, "LIMIT 20 OFFSET 0")
	assert.Equal(t, []interface{}{models.TopicStatusActive}, dataArgs)

	countSQL, countArgs := b.CountQuery()
	assert.Contains(t, countSQL, "SELECT COUNT(*)")
	assert.Equal(t, []interface{}{models.TopicStatusActive}, countArgs)
}

func TestTopicQueryBuilder_ViewerArgComesFirst(t *testing.T) {
	query := &models.TopicQueryRequest{Category: "tech", Search: "go"}
	b := newTopicQueryBuilder(query, uintPtr(42))

	dataSQL, dataArgs := b.DataQuery()
	assert.Contains(t, dataSQL, "AS is_liked")

	// SELECT 子句先拼装，viewer 参数位于全部 WHERE 参数之前
	assert.Equal(t, []interface{}{
		uint(42),
		models.TopicStatusActive,
		"tech",
		"%go%", "%go%",
	}, dataArgs)

	// 计数查询不含 viewer 片段，WHERE 参数与数据查询逐位一致
	countSQL, countArgs := b.CountQuery()
	assert.NotContains(t, countSQL, "is_liked")
	assert.Equal(t, []interface{}{
		models.TopicStatusActive,
		"tech",
		"%go%", "%go%",
	}, countArgs)
}

func TestTopicQueryBuilder_TagFilterByID(t *testing.T) {
	b := newTopicQueryBuilder(&models.TopicQueryRequest{Tag: "7"}, nil)

	dataSQL, dataArgs := b.DataQuery()
	assert.Contains(t, dataSQL, "JOIN topic_tags ON topic_tags.topic_id = topics.id")
	assert.Contains(t, dataSQL, "JOIN tags ON tags.id = topic_tags.tag_id")
	assert.Contains(t, dataSQL, "(tags.id = ? OR tags.name = ?)")
	assert.Contains(t, dataSQL, "GROUP BY topics.id, users.id")

	// 纯数字走ID分支，名称位填入空串保持参数个数一致
	assert.Equal(t, []interface{}{models.TopicStatusActive, uint64(7), ""}, dataArgs)

	countSQL, countArgs := b.CountQuery()
	assert.Contains(t, countSQL, "SELECT COUNT(DISTINCT topics.id)")
	assert.Equal(t, dataArgs, countArgs)
}

func TestTopicQueryBuilder_TagFilterByName(t *testing.T) {
	b := newTopicQueryBuilder(&models.TopicQueryRequest{Tag: "golang"}, nil)

	_, dataArgs := b.DataQuery()
	assert.Equal(t, []interface{}{models.TopicStatusActive, 0, "golang"}, dataArgs)
}

func TestTopicQueryBuilder_CombinedFiltersArgOrder(t *testing.T) {
	query := &models.TopicQueryRequest{
		Category: "tech",
		Tag:      "golang",
		Search:   "channel",
		Sort:     "hot",
	}
	b := newTopicQueryBuilder(query, uintPtr(9))

	dataSQL, dataArgs := b.DataQuery()
	assert.Equal(t, []interface{}{
		uint(9),
		models.TopicStatusActive,
		"tech",
		0, "golang",
		"%channel%", "%channel%",
	}, dataArgs)

	// WHERE 片段顺序与参数顺序一致
	statusIdx := strings.Index(dataSQL, "topics.status = ?")
	categoryIdx := strings.Index(dataSQL, "topics.category = ?")
	tagIdx := strings.Index(dataSQL, "(tags.id = ? OR tags.name = ?)")
	searchIdx := strings.Index(dataSQL, "topics.title ILIKE ?")
	assert.True(t, statusIdx < categoryIdx)
	assert.True(t, categoryIdx < tagIdx)
	assert.True(t, tagIdx < searchIdx)
}

func TestTopicQueryBuilder_SortClauses(t *testing.T) {
	cases := []struct {
		sort  string
		order string
	}{
		{"latest", "ORDER BY topics.created_at DESC"},
		{"hot", "ORDER BY topics.is_hot DESC, likes_count DESC, topics.created_at DESC"},
		{"official", "ORDER BY topics.is_official DESC, topics.created_at DESC"},
		{"bogus", "ORDER BY topics.created_at DESC"},
		{"", "ORDER BY topics.created_at DESC"},
	}

	for _, tc := range cases {
		b := newTopicQueryBuilder(&models.TopicQueryRequest{Sort: tc.sort}, nil)
		dataSQL, _ := b.DataQuery()
		assert.Contains(t, dataSQL, tc.order, "sort=%q", tc.sort)
	}
}

func TestTopicQueryBuilder_PageCoercion(t *testing.T) {
	b := newTopicQueryBuilder(&models.TopicQueryRequest{Page: -3, PageSize: 0}, nil)

	page, pageSize := b.Page()
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, pageSize)

	dataSQL, _ := b.DataQuery()
	assert.Contains(t, dataSQL, "LIMIT 20 OFFSET 0")

	b = newTopicQueryBuilder(&models.TopicQueryRequest{Page: 3, PageSize: 10}, nil)
	dataSQL, _ = b.DataQuery()
	assert.Contains(t, dataSQL, "LIMIT 10 OFFSET 20")
}

func TestTopicQueryBuilder_CountQueryOmitsOrderAndLimit(t *testing.T) {
	b := newTopicQueryBuilder(&models.TopicQueryRequest{Search: "x", Sort: "hot"}, uintPtr(1))

	countSQL, _ := b.CountQuery()
	assert.NotContains(t, countSQL, "ORDER BY")
	assert.NotContains(t, countSQL, "LIMIT")
	assert.NotContains(t, countSQL, "GROUP BY")
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 20))
	assert.Equal(t, 1, totalPages(1, 20))
	assert.Equal(t, 1, totalPages(20, 20))
	assert.Equal(t, 2, totalPages(21, 20))
	assert.Equal(t, 5, totalPages(100, 20))
}
