package repositories

import (
	"testing"

	"legalconnect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockPractitionerRepo(t *testing.T) (PractitionerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return NewPractitionerRepository(gdb), mock
}

func TestPractitionerRepository_UpdateStatusIf(t *testing.T) {
	t.Run("moves the status when unchanged", func(t *testing.T) {
		repo, mock := newMockPractitionerRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "practitioners" SET "verification_status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND verification_status = \$4`).
			WithArgs("verified", sqlmock.AnyArg(), 7, "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ok, err := repo.UpdateStatusIf(7, models.VerificationPending, models.VerificationVerified)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a lost race", func(t *testing.T) {
		repo, mock := newMockPractitionerRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "practitioners" SET "verification_status"=`).
			WithArgs("verified", sqlmock.AnyArg(), 7, "pending").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		ok, err := repo.UpdateStatusIf(7, models.VerificationPending, models.VerificationVerified)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPractitionerRepository_SetGatewayContactIf(t *testing.T) {
	t.Run("stores the id while the column is empty", func(t *testing.T) {
		repo, mock := newMockPractitionerRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bank_accounts" SET "gateway_contact_id"=\$1,"updated_at"=\$2 WHERE id = \$3 AND gateway_contact_id = ''`).
			WithArgs("cont_new", sqlmock.AnyArg(), 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ok, err := repo.SetGatewayContactIf(5, "cont_new")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps the winner's id on a second write", func(t *testing.T) {
		repo, mock := newMockPractitionerRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bank_accounts" SET "gateway_contact_id"=`).
			WithArgs("cont_loser", sqlmock.AnyArg(), 5).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		ok, err := repo.SetGatewayContactIf(5, "cont_loser")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
