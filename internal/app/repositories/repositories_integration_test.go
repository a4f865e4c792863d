package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vemac/institute/internal/app/migrations"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/db"
	"github.com/vemac/institute/internal/pkg/admission"
	"github.com/vemac/institute/internal/pkg/apperrors"
)

// testDB connects to INSTITUTE_TEST_DATABASE_URL, applies migrations and empties the tables.
func testDB(t *testing.T) *db.PostgresDB {
	t.Helper()
	dsn := os.Getenv("INSTITUTE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("INSTITUTE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool).MigrateFromDirectory(ctx, filepath.Join("..", "..", "..", "migrations")))
	_, err = pool.Exec(ctx, `TRUNCATE student_data, admission_counters, student_fees, users, institute_branch, inquiries RESTART IDENTITY`)
	require.NoError(t, err)

	return db.NewFromPool(pool, 5*time.Second)
}

func newTestStudent(first string) *models.Student {
	return &models.Student{
		InstituteName: "Main Branch",
		FirstName:     first,
		LastName:      "Tester",
		DOB:           time.Date(2012, 4, 1, 0, 0, 0, 0, time.UTC),
		Gender:        models.GenderFemale,
		Phone:         "9876543210",
		Course:        "Abacus",
		AdmissionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:        models.AdmissionPending,
		IsActive:      true,
	}
}

func TestIntegration_ConcurrentAdmissionsGetDistinctSequentialCodes(t *testing.T) {
	database := testDB(t)
	repos := NewRepositories(database)
	policy := admission.DefaultPolicy()

	const n = 100
	codes := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := newTestStudent(fmt.Sprintf("S%03d", i))
			errs[i] = repos.StudentRepository.CreateWithAdmissionCode(context.Background(), s, policy, 2026)
			codes[i] = s.AdmissionCode
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Strings(codes)
	for i, code := range codes {
		assert.Equal(t, fmt.Sprintf("INST-2026-%04d", i+1), code)
	}
}

func TestIntegration_ReserveContinuesAfterExistingCodes(t *testing.T) {
	database := testDB(t)
	repos := NewRepositories(database)
	ctx := context.Background()

	// A row inserted before the counter existed for this year.
	_, err := database.Pool.Exec(ctx, `
		INSERT INTO student_data (admission_code, institute_name, first_name, last_name, dob, gender, phone, course)
		VALUES ('INST-2025-0041', 'Main Branch', 'Old', 'Row', '2010-01-01', 'male', '9876543210', 'Abacus')`)
	require.NoError(t, err)

	code, err := repos.AdmissionCounterRepository.Reserve(ctx, admission.DefaultPolicy(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "INST-2025-0042", code)

	code, err = repos.AdmissionCounterRepository.Reserve(ctx, admission.DefaultPolicy(), 2027)
	require.NoError(t, err)
	assert.Equal(t, "INST-2027-0001", code)
}

func TestIntegration_AdmissionSequenceOverflowWritesNothing(t *testing.T) {
	database := testDB(t)
	repos := NewRepositories(database)
	ctx := context.Background()

	policy := admission.Policy{Prefix: "INST", MaxSequence: 2}
	for i := 0; i < 2; i++ {
		require.NoError(t, repos.StudentRepository.CreateWithAdmissionCode(ctx, newTestStudent("ok"), policy, 2026))
	}

	err := repos.StudentRepository.CreateWithAdmissionCode(ctx, newTestStudent("overflow"), policy, 2026)
	assert.ErrorIs(t, err, apperrors.ErrAdmissionCodesExhausted)

	var count int
	require.NoError(t, database.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM student_data`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestIntegration_FeeUpsertRaceLeavesOneRow(t *testing.T) {
	database := testDB(t)
	repos := NewRepositories(database)
	ctx := context.Background()

	amounts := []string{"1500.00", "1750.50"}
	inserted := make([]bool, len(amounts))
	var wg sync.WaitGroup
	for i, a := range amounts {
		wg.Add(1)
		go func(i int, a string) {
			defer wg.Done()
			fee := &models.Fee{
				FeeID:         "F100",
				InstituteName: "Main Branch",
				StudentName:   "Asha Verma",
				Amount:        decimal.RequireFromString(a),
				PaymentDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				PaymentMethod: models.PaymentCash,
				Status:        models.FeePending,
				CreatedAt:     time.Now(),
			}
			ok, err := repos.FeeRepository.Upsert(ctx, fee)
			assert.NoError(t, err)
			inserted[i] = ok
		}(i, a)
	}
	wg.Wait()

	assert.NotEqual(t, inserted[0], inserted[1], "exactly one writer inserts")

	var count int
	require.NoError(t, database.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM student_fees WHERE fee_id = 'F100'`).Scan(&count))
	assert.Equal(t, 1, count)

	fee, err := repos.FeeRepository.GetByID(ctx, "F100")
	require.NoError(t, err)
	assert.Contains(t, amounts, fee.Amount.StringFixed(2))
}

func TestIntegration_MarkPaidIsIdempotent(t *testing.T) {
	database := testDB(t)
	repos := NewRepositories(database)
	ctx := context.Background()

	_, _, err := repos.FeeRepository.MarkPaid(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	fee := &models.Fee{
		FeeID: "F7", InstituteName: "Main Branch", StudentName: "Ravi",
		Amount: decimal.RequireFromString("99.99"), PaymentDate: time.Now(),
		PaymentMethod: models.PaymentCard, Status: models.FeePending, CreatedAt: time.Now(),
	}
	_, err = repos.FeeRepository.Upsert(ctx, fee)
	require.NoError(t, err)

	paid, changed, err := repos.FeeRepository.MarkPaid(ctx, "F7")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.FeePaid, paid.Status)

	paid, changed, err = repos.FeeRepository.MarkPaid(ctx, "F7")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.FeePaid, paid.Status)
}

func TestIntegration_ToggleTwiceRestoresState(t *testing.T) {
	database := testDB(t)
	repos := NewRepositories(database)
	ctx := context.Background()

	inst := &models.Institute{Name: "North Branch"}
	require.NoError(t, repos.InstituteRepository.Create(ctx, inst))

	status, err := repos.InstituteRepository.ToggleStatus(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, status)
	status, err = repos.InstituteRepository.ToggleStatus(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)

	s := newTestStudent("Toggle")
	require.NoError(t, repos.StudentRepository.CreateWithAdmissionCode(ctx, s, admission.DefaultPolicy(), 2026))
	active, err := repos.StudentRepository.ToggleActive(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, active)
	active, err = repos.StudentRepository.ToggleActive(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, active)

	_, err = repos.UserRepository.ToggleStatus(ctx, 424242)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestIntegration_UserUniqueConstraintsBecomeConflicts(t *testing.T) {
	database := testDB(t)
	repos := NewRepositories(database)
	ctx := context.Background()

	u := &models.User{Username: "office1", Email: "office@example.com", Name: "Office", PasswordHash: "x", Role: models.RoleOffice}
	require.NoError(t, repos.UserRepository.Create(ctx, u))

	dup := &models.User{Username: "office2", Email: "office@example.com", Name: "Other", PasswordHash: "x", Role: models.RoleOffice}
	err := repos.UserRepository.Create(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, err := repos.UserRepository.GetByLogin(ctx, "OFFICE1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}
