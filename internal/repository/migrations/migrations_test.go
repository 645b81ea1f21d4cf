package migrations

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", "file:migrations_up?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Up(db, SQLite, zap.NewNop()))
	// Second run is a no-op.
	require.NoError(t, Up(db, SQLite, zap.NewNop()))

	_, err = db.Exec(`INSERT INTO kv (kind, native_lang, target_lang, value) VALUES ('decks', 'English', 'French', '[]')`)
	assert.NoError(t, err)
}

func TestUp_UnknownDriver(t *testing.T) {
	err := Up(nil, "mysql", zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}
