package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/isdelr/event-graph-be/internal/database"
	"github.com/isdelr/event-graph-be/internal/storage"
	"github.com/isdelr/event-graph-be/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func newTestStorage(t *testing.T) storage.Store {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.MigrateSQLite(context.Background(), db))
	return New(db)
}

func TestStorage(t *testing.T) {
	storagetest.Run(t, newTestStorage)
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		code int
		want bool
	}{
		{"unique index", sqlite3.SQLITE_CONSTRAINT_UNIQUE, true},
		{"primary key", sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, true},
		{"not null", sqlite3.SQLITE_CONSTRAINT_NOTNULL, false},
		{"foreign key", sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, false},
		{"check", sqlite3.SQLITE_CONSTRAINT_CHECK, false},
		{"bare constraint", sqlite3.SQLITE_CONSTRAINT, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.code))
		})
	}
}

func TestStorage_SaveUser_ConstraintCodes(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateSQLite(context.Background(), db))
	ctx := context.Background()

	_, err = New(db).SaveUser(ctx, "a@b.com", "hash")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO users (id, email, password_hash) VALUES ('u2', 'a@b.com', 'hash')")
	var sqliteErr *sqlite.Error
	require.True(t, errors.As(err, &sqliteErr))
	assert.True(t, isUniqueViolation(sqliteErr.Code()))

	_, err = db.ExecContext(ctx, "INSERT INTO users (id, email, password_hash) VALUES ('u3', 'c@d.com', NULL)")
	require.True(t, errors.As(err, &sqliteErr))
	assert.False(t, isUniqueViolation(sqliteErr.Code()))

	_, err = New(db).SaveUser(ctx, "a@b.com", "other")
	assert.ErrorIs(t, err, storage.ErrUserExists)
}
