package sqlite

import (
	"database/sql"
	"testing"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"
	"flashdeck/internal/repository/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) (*KVStore, *sql.DB) {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(db, migrations.SQLite, zap.NewNop()))
	return NewKVStore(db), db
}

func TestKVStore_ReadMissing(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.Read(repository.GlobalKey(repository.KindAPIKey))
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestKVStore_WriteAndOverwrite(t *testing.T) {
	s, _ := setupStore(t)
	key := repository.PartitionKey(repository.KindCards, domain.NewPartition("English", "French"))

	require.NoError(t, s.Write(repository.Entry{Key: key, Value: []byte(`[{"id":"a"}]`)}))
	require.NoError(t, s.Write(repository.Entry{Key: key, Value: []byte(`[{"id":"b"}]`)}))

	got, err := s.Read(key)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"b"}]`, string(got))
}

func TestKVStore_WriteIsAtomic(t *testing.T) {
	s, db := setupStore(t)
	p := domain.NewPartition("English", "French")
	decks := repository.PartitionKey(repository.KindDecks, p)
	cards := repository.PartitionKey(repository.KindCards, p)

	require.NoError(t, s.Write(
		repository.Entry{Key: decks, Value: []byte(`["old"]`)},
		repository.Entry{Key: cards, Value: []byte(`["old"]`)},
	))

	// Make the second statement of the batch fail.
	_, err := db.Exec(`CREATE TRIGGER reject_cards BEFORE INSERT ON kv WHEN NEW.kind = 'cards'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM kv WHERE kind = 'cards'`)
	require.NoError(t, err)

	err = s.Write(
		repository.Entry{Key: decks, Value: []byte(`["new"]`)},
		repository.Entry{Key: cards, Value: []byte(`["new"]`)},
	)
	require.Error(t, err)

	got, err := s.Read(decks)
	require.NoError(t, err)
	assert.Equal(t, `["old"]`, string(got))
}

func TestKVStore_Delete(t *testing.T) {
	s, _ := setupStore(t)
	key := repository.PartitionKey(repository.KindDeletedWords, domain.NewPartition("English", "French"))

	require.NoError(t, s.Write(repository.Entry{Key: key, Value: []byte(`[]`)}))
	require.NoError(t, s.Write(repository.Entry{Key: key}))

	_, err := s.Read(key)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestKVStore_PartitionsAreIsolated(t *testing.T) {
	s, _ := setupStore(t)
	a := domain.NewPartition("a_b", "c")
	b := domain.NewPartition("a", "b_c")

	require.NoError(t, s.Write(
		repository.Entry{Key: repository.PartitionKey(repository.KindDecks, a), Value: []byte(`["A"]`)},
		repository.Entry{Key: repository.PartitionKey(repository.KindDecks, b), Value: []byte(`["B"]`)},
		repository.Entry{Key: repository.GlobalKey(repository.KindRecentPairs), Value: []byte(`[]`)},
	))

	gotA, err := s.Read(repository.PartitionKey(repository.KindDecks, a))
	require.NoError(t, err)
	assert.Equal(t, `["A"]`, string(gotA))

	partitions, err := s.Partitions(repository.KindDecks)
	require.NoError(t, err)
	assert.Equal(t, []domain.Partition{b, a}, partitions)
}

func TestKVStore_Ping(t *testing.T) {
	s, db := setupStore(t)
	assert.NoError(t, s.Ping())

	require.NoError(t, db.Close())
	assert.Error(t, s.Ping())
}
