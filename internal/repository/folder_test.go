package repository

import (
	"context"
	"regexp"
	"testing"

	"artfolio/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestFolderRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFolderRepository(db)
	ctx := context.Background()

	t.Run("With initial items", func(t *testing.T) {
		folder := &models.Folder{UserID: 1, Name: "Watercolors"}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "folders"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
			WithArgs(11).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "folder_items"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := repo.Create(ctx, folder, []uint{11})
		assert.NoError(t, err)
		assert.Equal(t, 1, folder.ItemCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back on missing post", func(t *testing.T) {
		folder := &models.Folder{UserID: 1, Name: "Watercolors"}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "folders"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectRollback()

		err := repo.Create(ctx, folder, []uint{99})
		assert.Error(t, err)
		appErr, ok := err.(*models.AppError)
		assert.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFolderRepository_AddItem(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFolderRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","user_id" FROM "folders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(4, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO folder_items`)).
		WithArgs(4, 11).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.AddItem(ctx, 4, 11)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderRepository_RemoveItem(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFolderRepository(db)
	ctx := context.Background()

	t.Run("Removes existing item", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","user_id" FROM "folders"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(4, 1))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "folder_items"`)).
			WithArgs(4, 11).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.RemoveItem(ctx, 4, 11)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing item", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","user_id" FROM "folders"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(4, 1))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "folder_items"`)).
			WithArgs(4, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.RemoveItem(ctx, 4, 99)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFolderRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFolderRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","user_id" FROM "folders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(4, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "folder_items"`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "folders"`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 4)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderRepository_ListItems(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFolderRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT posts\.\*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "artist_name", "comments_count", "liked", "bookmarked"}).
			AddRow(11, 1, "Yves Klein", 0, false, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "inkwell"))

	posts, err := repo.ListItems(ctx, 4, 1, 20, 0)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.True(t, posts[0].Bookmarked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
