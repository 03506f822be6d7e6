package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"codesearch/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestPostGormRepositoryList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostGormRepository(db)

	rows := sqlmock.NewRows([]string{"id", "body", "created_at"}).
		AddRow(4, `{"title":"D"}`, time.Now()).
		AddRow(5, `{"title":"E","tags":["x"]}`, time.Now())
	mock.ExpectQuery("SELECT \\* FROM `posts` ORDER BY id ASC LIMIT").WillReturnRows(rows)

	posts, err := repo.List(context.Background(), 3, 3)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "D", posts[0]["title"])
	assert.Equal(t, []interface{}{"x"}, posts[1]["tags"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostGormRepositoryListOutOfRange(t *testing.T) {
	db, mock := newMockDB(t)

	posts, err := NewPostGormRepository(db).List(context.Background(), -3, 3)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostGormRepositoryAppend(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostGormRepository(db)

	mock.ExpectExec("INSERT INTO `posts`").
		WithArgs(`{"title":"A"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Append(context.Background(), model.Post{"title": "A"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
