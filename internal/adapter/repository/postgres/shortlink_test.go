package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/treebio/treebio/internal/entity"
)

type ShortLinkRepositoryTestSuite struct {
	suite.Suite
	errUnknown      error
	errAffectedRows error
	columns         []string
	mock            sqlmock.Sqlmock
	repo            *ShortLinkRepository
}

func (suite *ShortLinkRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.errAffectedRows = errors.New("affected rows error")
	suite.columns = []string{"id", "short_code", "url", "clicks", "created_at"}
}

func (suite *ShortLinkRepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}
	suite.T().Cleanup(func() {
		mockDB.Close()
	})

	db := sqlx.NewDb(mockDB, "sqlmock")
	suite.T().Cleanup(func() {
		db.Close()
	})

	suite.mock = mock
	suite.repo = NewShortLinkRepository(db)
}

func (suite *ShortLinkRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *ShortLinkRepositoryTestSuite) TestSave() {
	suite.Run("short code exists", func() {
		suite.mock.ExpectQuery(`INSERT INTO short_links`).
			WithArgs("ABC123", "https://example.com").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		link, err := suite.repo.Save(context.Background(), "ABC123", "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortCodeExists)
		suite.Nil(link)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`INSERT INTO short_links`).
			WithArgs("ABC123", "https://example.com").
			WillReturnError(suite.errUnknown)

		link, err := suite.repo.Save(context.Background(), "ABC123", "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, "ABC123", "https://example.com", 0, time.Time{})

		suite.mock.ExpectQuery(`INSERT INTO short_links`).
			WithArgs("ABC123", "https://example.com").
			WillReturnRows(rows)

		link, err := suite.repo.Save(context.Background(), "ABC123", "https://example.com")

		suite.NoError(err)
		suite.NotNil(link)
		suite.Equal("ABC123", link.ShortCode)
		suite.Equal("https://example.com", link.URL)
		suite.Zero(link.Clicks)
	})
}

func (suite *ShortLinkRepositoryTestSuite) TestExistsByCode() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("ABC123").
			WillReturnError(suite.errUnknown)

		exists, err := suite.repo.ExistsByCode(context.Background(), "ABC123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.False(exists)
	})

	suite.Run("short code exists", func() {
		rows := sqlmock.NewRows([]string{"exists"}).AddRow(true)

		suite.mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("ABC123").
			WillReturnRows(rows)

		exists, err := suite.repo.ExistsByCode(context.Background(), "ABC123")

		suite.NoError(err)
		suite.True(exists)
	})

	suite.Run("short code does not exist", func() {
		rows := sqlmock.NewRows([]string{"exists"}).AddRow(false)

		suite.mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("ABC123").
			WillReturnRows(rows)

		exists, err := suite.repo.ExistsByCode(context.Background(), "ABC123")

		suite.NoError(err)
		suite.False(exists)
	})
}

func (suite *ShortLinkRepositoryTestSuite) TestRetrieveByShortCode() {
	suite.Run("short link not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM short_links`).
			WithArgs("ABC123").
			WillReturnError(sql.ErrNoRows)

		link, err := suite.repo.RetrieveByShortCode(context.Background(), "ABC123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM short_links`).
			WithArgs("ABC123").
			WillReturnError(suite.errUnknown)

		link, err := suite.repo.RetrieveByShortCode(context.Background(), "ABC123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, "ABC123", "https://example.com", 7, time.Time{})

		suite.mock.ExpectQuery(`SELECT (.+) FROM short_links`).
			WithArgs("ABC123").
			WillReturnRows(rows)

		link, err := suite.repo.RetrieveByShortCode(context.Background(), "ABC123")

		suite.NoError(err)
		suite.NotNil(link)
		suite.Equal("ABC123", link.ShortCode)
		suite.Equal(int64(7), link.Clicks)
	})
}

func (suite *ShortLinkRepositoryTestSuite) TestRetrieveAll() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM short_links`).
			WillReturnError(suite.errUnknown)

		links, err := suite.repo.RetrieveAll(context.Background())

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(links)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(2, "DEF456", "https://example.org", 0, time.Time{}).
			AddRow(1, "ABC123", "https://example.com", 3, time.Time{})

		suite.mock.ExpectQuery(`SELECT (.+) FROM short_links`).
			WillReturnRows(rows)

		links, err := suite.repo.RetrieveAll(context.Background())

		suite.NoError(err)
		suite.Len(links, 2)
		suite.Equal("DEF456", links[0].ShortCode)
		suite.Equal("ABC123", links[1].ShortCode)
	})
}

func (suite *ShortLinkRepositoryTestSuite) TestIncrementClicks() {
	suite.Run("short link not found", func() {
		suite.mock.ExpectQuery(`UPDATE short_links`).
			WithArgs("ABC123").
			WillReturnError(sql.ErrNoRows)

		link, err := suite.repo.IncrementClicks(context.Background(), "ABC123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`UPDATE short_links`).
			WithArgs("ABC123").
			WillReturnError(suite.errUnknown)

		link, err := suite.repo.IncrementClicks(context.Background(), "ABC123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, "ABC123", "https://example.com", 8, time.Time{})

		suite.mock.ExpectQuery(`UPDATE short_links`).
			WithArgs("ABC123").
			WillReturnRows(rows)

		link, err := suite.repo.IncrementClicks(context.Background(), "ABC123")

		suite.NoError(err)
		suite.NotNil(link)
		suite.Equal(int64(8), link.Clicks)
	})
}

func (suite *ShortLinkRepositoryTestSuite) TestRemove() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectExec(`DELETE FROM short_links`).
			WithArgs(int64(1)).
			WillReturnError(suite.errUnknown)

		err := suite.repo.Remove(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("affected rows error", func() {
		suite.mock.ExpectExec(`DELETE FROM short_links`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewErrorResult(suite.errAffectedRows))

		err := suite.repo.Remove(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, suite.errAffectedRows)
	})

	suite.Run("short link not found", func() {
		suite.mock.ExpectExec(`DELETE FROM short_links`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := suite.repo.Remove(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortLinkNotFound)
	})

	suite.Run("success", func() {
		suite.mock.ExpectExec(`DELETE FROM short_links`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := suite.repo.Remove(context.Background(), 1)

		suite.NoError(err)
	})
}

func (suite *ShortLinkRepositoryTestSuite) TestRemoveMany() {
	suite.Run("no ids", func() {
		deleted, err := suite.repo.RemoveMany(context.Background(), nil)

		suite.NoError(err)
		suite.Zero(deleted)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectExec(`DELETE FROM short_links`).
			WithArgs(int64(1), int64(2)).
			WillReturnError(suite.errUnknown)

		deleted, err := suite.repo.RemoveMany(context.Background(), []int64{1, 2})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Zero(deleted)
	})

	suite.Run("success", func() {
		suite.mock.ExpectExec(`DELETE FROM short_links`).
			WithArgs(int64(1), int64(2), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 2))

		deleted, err := suite.repo.RemoveMany(context.Background(), []int64{1, 2, 3})

		suite.NoError(err)
		suite.Equal(int64(2), deleted)
	})
}

func TestShortLinkRepository(t *testing.T) {
	suite.Run(t, new(ShortLinkRepositoryTestSuite))
}
