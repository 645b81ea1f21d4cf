package postgres

import (
	"fmt"
	"testing"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var testPartition = domain.NewPartition("English", "French")

func TestKVStore_Read(t *testing.T) {
	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expectedValue []byte
		expectedError error
	}{
		{
			name:          "value found",
			mockRows:      sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"d1"}]`)),
			expectedValue: []byte(`[{"id":"d1"}]`),
		},
		{
			name:          "no value",
			mockRows:      sqlmock.NewRows([]string{"value"}),
			expectedError: repository.ErrKeyNotFound,
		},
		{
			name:          "query error",
			mockError:     fmt.Errorf("connection refused"),
			expectedError: fmt.Errorf("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewKVStore(db)

			query := "SELECT value FROM kv WHERE kind = \\$1 AND native_lang = \\$2 AND target_lang = \\$3"
			exp := mock.ExpectQuery(query).WithArgs("decks", "English", "French")
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnRows(tt.mockRows)
			}

			value, err := repo.Read(repository.PartitionKey(repository.KindDecks, testPartition))

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, value)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedValue, value)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestKVStore_Write(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewKVStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kv").
		WithArgs("decks", "English", "French", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM kv").
		WithArgs("cards", "English", "French").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Write(
		repository.Entry{Key: repository.PartitionKey(repository.KindDecks, testPartition), Value: []byte(`[]`)},
		repository.Entry{Key: repository.PartitionKey(repository.KindCards, testPartition)},
	)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_Write_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewKVStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kv").
		WithArgs("decks", "English", "French", `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO kv").
		WithArgs("cards", "English", "French", `[]`).
		WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	err = repo.Write(
		repository.Entry{Key: repository.PartitionKey(repository.KindDecks, testPartition), Value: []byte(`[]`)},
		repository.Entry{Key: repository.PartitionKey(repository.KindCards, testPartition), Value: []byte(`[]`)},
	)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_Write_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewKVStore(db)

	mock.ExpectBegin().WillReturnError(fmt.Errorf("begin error"))

	err = repo.Write(repository.Entry{Key: repository.GlobalKey(repository.KindAPIKey), Value: []byte(`"k"`)})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_Partitions(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewKVStore(db)

	rows := sqlmock.NewRows([]string{"native_lang", "target_lang"}).
		AddRow("English", "French").
		AddRow("English", "German")

	mock.ExpectQuery("SELECT native_lang, target_lang FROM kv WHERE kind = \\$1").
		WithArgs("cards").
		WillReturnRows(rows)

	partitions, err := repo.Partitions(repository.KindCards)

	assert.NoError(t, err)
	assert.Equal(t, []domain.Partition{
		{Native: "English", Target: "French"},
		{Native: "English", Target: "German"},
	}, partitions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVStore_Partitions_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewKVStore(db)

	mock.ExpectQuery("SELECT native_lang, target_lang FROM kv").
		WithArgs("cards").
		WillReturnError(fmt.Errorf("query error"))

	partitions, err := repo.Partitions(repository.KindCards)

	assert.Error(t, err)
	assert.Nil(t, partitions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
