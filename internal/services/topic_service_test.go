package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB 基于 sqlmock 构造 gorm 连接，配置与生产侧一致
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return gdb, mock
}

func activeTopicRows(id uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "author_id", "status", "created_at"}).
		AddRow(id, "t", 1, "active", time.Now())
}

func TestLikeTopic_CreatesRecordAndRefreshesCount(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WithArgs(5, "active", 1).
		WillReturnRows(activeTopicRows(5))
	// 尚无点赞记录
	mock.ExpectQuery(`SELECT \* FROM "topic_likes" WHERE topic_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic_id", "user_id"}))
	mock.ExpectQuery(`INSERT INTO "topic_likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "topic_likes" WHERE topic_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "topics" SET "likes_count"=\$1 WHERE id = \$2`).
		WithArgs(1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	likesCount, err := service.LikeTopic(5, 9)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), likesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeTopic_AlreadyLikedIsNoop(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(activeTopicRows(5))
	// 已有点赞记录：不再插入，仅重算计数
	mock.ExpectQuery(`SELECT \* FROM "topic_likes" WHERE topic_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic_id", "user_id"}).AddRow(3, 5, 9))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "topic_likes" WHERE topic_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec(`UPDATE "topics" SET "likes_count"=\$1 WHERE id = \$2`).
		WithArgs(4, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	likesCount, err := service.LikeTopic(5, 9)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), likesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlikeTopic_NotLikedIsNoop(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(activeTopicRows(5))
	mock.ExpectQuery(`SELECT \* FROM "topic_likes" WHERE topic_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic_id", "user_id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "topic_likes" WHERE topic_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "topics" SET "likes_count"=\$1 WHERE id = \$2`).
		WithArgs(0, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	likesCount, err := service.UnlikeTopic(5, 9)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), likesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlikeTopic_DeletesRecord(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(activeTopicRows(5))
	mock.ExpectQuery(`SELECT \* FROM "topic_likes" WHERE topic_id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic_id", "user_id"}).AddRow(3, 5, 9))
	mock.ExpectExec(`DELETE FROM "topic_likes" WHERE "topic_likes"\."id" = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "topic_likes" WHERE topic_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "topics" SET "likes_count"=\$1 WHERE id = \$2`).
		WithArgs(0, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	likesCount, err := service.UnlikeTopic(5, 9)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), likesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeTopic_TopicNotFoundRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := service.LikeTopic(404, 9)
	assert.EqualError(t, err, "topic not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTopic_PermissionDenied(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "status"}).AddRow(5, 1, "active"))

	err := service.DeleteTopic(5, 2, "user")
	assert.EqualError(t, err, "permission denied: only topic author can delete")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTopic_AdminCanDelete(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "status"}).AddRow(5, 1, "active"))
	mock.ExpectExec(`UPDATE "topics" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := service.DeleteTopic(5, 2, "admin")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTopic_SyncsTagsInOneTransaction(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "topics"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	// 主题落库和标签同步在同一事务内
	mock.ExpectExec(`DELETE FROM "topic_tags" WHERE topic_id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`INSERT INTO "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectExec(`INSERT INTO "topic_tags"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 创建成功后回读详情，标签来自批量标签查询
	mock.ExpectQuery(`SELECT topics\.id, topics\.title`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "content", "category", "author_id", "status",
			"views", "is_hot", "is_official", "created_at", "updated_at",
			"author_name", "author_avatar", "likes_count", "comments_count", "is_liked",
		}).AddRow(5, "t", "c", "tech", 9, "active", 0, false, false, time.Now(), time.Now(), "alice", "", 0, 0, false))
	mock.ExpectQuery(`SELECT topic_tags\.topic_id, tags\.id, tags\.name`).
		WillReturnRows(sqlmock.NewRows([]string{"topic_id", "id", "name"}).AddRow(5, 12, "golang"))

	topic, err := service.CreateTopic(&models.TopicCreateRequest{
		Title:    "t",
		Content:  "c",
		Category: "tech",
		Tags:     []models.TagRef{{Name: "golang"}},
	}, 9)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), topic.ID)
	assert.Equal(t, []models.TagResponse{{ID: 12, Name: "golang"}}, topic.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTopic_TagSyncFailureRollsBackTopic(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := &TopicService{db: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "topics"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`DELETE FROM "topic_tags" WHERE topic_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE "tags"\."id" = \$1`).
		WillReturnRows(tagRows(7, "golang"))
	// 关联写入失败，主题插入随整个事务回滚
	mock.ExpectExec(`INSERT INTO "topic_tags"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	topic, err := service.CreateTopic(&models.TopicCreateRequest{
		Title:   "t",
		Content: "c",
		Tags:    []models.TagRef{{ID: 7}},
	}, 9)
	assert.Nil(t, topic)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTopics_NilDB(t *testing.T) {
	service := &TopicService{}

	_, err := service.GetTopics(&models.TopicQueryRequest{}, nil)
	assert.EqualError(t, err, "database connection not initialized")
}
