package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskpilot-api/internal/domain"
	"github.com/phrazzld/taskpilot-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedErr error
		expectedMsg string
	}{
		{
			name: "nil_error",
		},
		{
			name:        "sql_no_rows",
			err:         sql.ErrNoRows,
			expectedErr: store.ErrNotFound,
		},
		{
			name:        "unique_violation",
			err:         &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_pkey"},
			expectedErr: store.ErrDuplicate,
		},
		{
			name:        "foreign_key_violation",
			err:         &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_user_id_fkey"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "tasks_user_id_fkey",
		},
		{
			name:        "check_constraint_violation",
			err:         &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_status_check"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "check constraint violation",
		},
		{
			name:        "not_null_violation",
			err:         &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)

			if tt.err == nil {
				assert.NoError(t, result)
				return
			}

			require.Error(t, result)
			assert.ErrorIs(t, result, tt.expectedErr)
			if tt.expectedMsg != "" {
				assert.Contains(t, result.Error(), tt.expectedMsg)
			}
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	generic := errors.New("some other error")
	assert.Same(t, generic, MapError(generic))

	unknown := &pgconn.PgError{Code: "99999", Message: "unknown error"}
	assert.Equal(t, error(unknown), MapError(unknown))
}

func TestViolationPredicates(t *testing.T) {
	unique := fmt.Errorf("context: %w", &pgconn.PgError{Code: uniqueViolationCode})
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(store.ErrTaskNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(errors.New("other error")))
	assert.False(t, IsNotFoundError(nil))
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(store.TaskFilter{UserID: "u1"})
	assert.Equal(t, " WHERE user_id = $1 AND deleted_at IS NULL", where)
	assert.Equal(t, []any{"u1"}, args)

	status := domain.TaskStatusCompleted
	where, args = whereClause(store.TaskFilter{UserID: "u1", Status: &status, IncludeDeleted: true})
	assert.Equal(t, " WHERE user_id = $1 AND status = $2", where)
	assert.Equal(t, []any{"u1", "COMPLETED"}, args)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir(MigrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_create_users_table.sql", entries[0].Name())
	assert.Equal(t, "00002_create_tasks_table.sql", entries[1].Name())
}
