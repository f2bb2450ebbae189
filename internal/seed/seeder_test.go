package seed

import (
	"errors"
	"testing"

	"github.com/aaron-seq/cmldb/internal/cml"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	t.Run("Should create the cmls table when missing", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectExec("CREATE TABLE IF NOT EXISTS cmls").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))

		assert.NoError(t, EnsureSchema(t.Context(), mockPool))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should wrap engine errors", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectExec("CREATE TABLE IF NOT EXISTS cmls").
			WillReturnError(errors.New(`function uuid_generate_v4() does not exist`))

		err = EnsureSchema(t.Context(), mockPool)
		assert.ErrorContains(t, err, "ensure cmls table")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestSeeder_Load(t *testing.T) {
	t.Run("Should insert records in batch-sized transactions", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		records := []cml.CML{{CMLID: "CML-1"}, {CMLID: "CML-2"}, {CMLID: "CML-3"}}

		mockPool.ExpectBegin()
		mockPool.ExpectExec("INSERT INTO cmls").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectExec("INSERT INTO cmls").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()
		mockPool.ExpectBegin()
		mockPool.ExpectExec("INSERT INTO cmls").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		inserted, err := New(mockPool, Options{BatchSize: 2}).Load(t.Context(), records)
		require.NoError(t, err)
		assert.Equal(t, 3, inserted)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should roll back the batch when an insert fails", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		records := []cml.CML{{CMLID: "CML-1"}, {CMLID: "CML-2"}}

		mockPool.ExpectBegin()
		mockPool.ExpectExec("INSERT INTO cmls").WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectExec("INSERT INTO cmls").
			WillReturnError(errors.New("value too long"))
		mockPool.ExpectRollback()

		inserted, err := New(mockPool, Options{BatchSize: 50}).Load(t.Context(), records)
		require.Error(t, err)
		assert.ErrorContains(t, err, `insert cml "CML-2"`)
		assert.Equal(t, 0, inserted)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should skip duplicates when keeping existing rows", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		records := []cml.CML{{CMLID: "CML-1"}}

		mockPool.ExpectBegin()
		mockPool.ExpectExec(`ON CONFLICT \(cml_id\) DO NOTHING`).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mockPool.ExpectCommit()

		inserted, err := New(mockPool, Options{BatchSize: 50, KeepExisting: true}).
			Load(t.Context(), records)
		require.NoError(t, err)
		assert.Equal(t, 0, inserted)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should handle an empty record set", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		inserted, err := New(mockPool, Options{}).Load(t.Context(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, inserted)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestSeeder_Clear(t *testing.T) {
	t.Run("Should delete all existing rows", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		mockPool.ExpectExec("DELETE FROM cmls").
			WillReturnResult(pgxmock.NewResult("DELETE", 42))

		assert.NoError(t, New(mockPool, Options{}).Clear(t.Context()))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
