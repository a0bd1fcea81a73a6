package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateComment_RejectsCrossTopicParent(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &CommentService{db: gdb}

	parentID := uint(3)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(activeTopicRows(5))
	// 父评论属于另一个主题
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic_id", "status"}).AddRow(3, 8, "active"))
	mock.ExpectRollback()

	_, err := service.CreateComment(&models.CommentCreateRequest{
		TopicID:  5,
		Content:  "reply",
		ParentID: &parentID,
	}, 9)
	assert.EqualError(t, err, "parent comment belongs to a different topic")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_TopicNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &CommentService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := service.CreateComment(&models.CommentCreateRequest{TopicID: 404, Content: "x"}, 9)
	assert.EqualError(t, err, "topic not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_RefreshesTopicCount(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &CommentService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(activeTopicRows(5))
	mock.ExpectQuery(`INSERT INTO "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	// 评论数以评论表为准重算后写回主题
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments" WHERE topic_id = \$1 AND status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	mock.ExpectExec(`UPDATE "topics" SET "comments_count"=\$1 WHERE id = \$2`).
		WithArgs(6, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 创建成功后回读详情
	mock.ExpectQuery(`SELECT comments\.id, comments\.topic_id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "topic_id", "author_id", "content", "parent_id", "created_at",
			"author_name", "author_avatar", "likes_count", "is_liked",
		}).AddRow(21, 5, 9, "first", nil, time.Now(), "alice", "", 0, false))

	comment, err := service.CreateComment(&models.CommentCreateRequest{TopicID: 5, Content: "first"}, 9)
	assert.NoError(t, err)
	assert.Equal(t, uint(21), comment.ID)
	assert.Equal(t, "alice", comment.AuthorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildCommentQuery_ViewerArgComesFirst(t *testing.T) {
	viewer := uint(42)
	sql, args := buildCommentQuery(&viewer, "comments.topic_id = ?")

	assert.Contains(t, sql, "AS is_liked")
	assert.Contains(t, sql, "comments.status = 'active' AND comments.topic_id = ?")
	assert.Equal(t, []interface{}{uint(42)}, args)

	sql, args = buildCommentQuery(nil, "comments.id = ?")
	assert.NotContains(t, sql, "is_liked")
	assert.Empty(t, args)
}
