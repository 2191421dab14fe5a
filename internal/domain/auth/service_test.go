package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
)

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	byID    map[id.ID]*Employee
	byEmail map[string]*Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		byID:    make(map[id.ID]*Employee),
		byEmail: make(map[string]*Employee),
	}
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, emp *Employee) error {
	if _, ok := f.byEmail[emp.Email]; ok {
		return apperror.NewDuplicate("employee", "email", emp.Email)
	}
	cp := *emp
	f.byID[emp.ID] = &cp
	f.byEmail[emp.Email] = &cp
	return nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, empID id.ID) (*Employee, error) {
	emp, ok := f.byID[empID]
	if !ok {
		return nil, apperror.NewNotFound("employee", empID.String())
	}
	cp := *emp
	return &cp, nil
}

func (f *fakeEmployeeRepo) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	emp, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperror.NewNotFound("employee", email)
	}
	cp := *emp
	return &cp, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, emp *Employee) error {
	stored, ok := f.byID[emp.ID]
	if !ok {
		return apperror.NewNotFound("employee", emp.ID.String())
	}
	*stored = *emp
	return nil
}

func (f *fakeEmployeeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[strings.ToLower(email)]
	return ok, nil
}

func newAuthService(repo *fakeEmployeeRepo) *Service {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService, noopTxManager{})
}

// addEmployee seeds the repo directly with a min-cost hash to keep tests fast.
func addEmployee(t *testing.T, repo *fakeEmployeeRepo, email, password string) *Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	emp := NewEmployee(email, string(hash))
	require.NoError(t, repo.Create(context.Background(), emp))
	return emp
}

func TestService_Register(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	emp, err := svc.Register(ctx, RegisterRequest{
		Email:    "  New.User@Example.COM ",
		Password: "s3cret-pass",
		Name:     "New User",
	})
	require.NoError(t, err)

	// Email is normalized
	assert.Equal(t, "new.user@example.com", emp.Email)
	assert.NotEqual(t, "s3cret-pass", emp.PasswordHash)

	// Duplicate registration is rejected
	_, err = svc.Register(ctx, RegisterRequest{
		Email:    "new.user@example.com",
		Password: "another-pass",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestService_Register_ShortPassword(t *testing.T) {
	svc := newAuthService(newFakeEmployeeRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "short",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_Login(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	addEmployee(t, repo, "user@example.com", "correct-password")

	token, emp, err := svc.Login(ctx, Credentials{
		Email:    "USER@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.NotNil(t, emp.LastLoginAt)

	// The issued token validates back to the same employee
	user, err := NewJWTService(DefaultJWTConfig("test-secret")).ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, emp.ID.String(), user.UserID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	addEmployee(t, repo, "user@example.com", "correct-password")

	_, _, err := svc.Login(ctx, Credentials{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeEmployeeRepo())

	_, _, err := svc.Login(context.Background(), Credentials{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	// Same error as wrong password: no account enumeration
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestService_Login_LockoutAfterFailures(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	emp := addEmployee(t, repo, "user@example.com", "correct-password")

	for i := 0; i < maxLoginAttempts; i++ {
		_, _, err := svc.Login(ctx, Credentials{
			Email:    "user@example.com",
			Password: "wrong-password",
		})
		require.Error(t, err)
	}

	// Account is now locked, even with the right password
	_, _, err := svc.Login(ctx, Credentials{
		Email:    "user@example.com",
		Password: "correct-password",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)

	stored, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLocked())
}

func TestService_Login_DisabledAccount(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	emp := addEmployee(t, repo, "user@example.com", "correct-password")
	emp.IsActive = false
	require.NoError(t, repo.Update(ctx, emp))

	_, _, err := svc.Login(ctx, Credentials{
		Email:    "user@example.com",
		Password: "correct-password",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestService_ChangePassword(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	emp := addEmployee(t, repo, "user@example.com", "old-password")

	// Wrong current password is rejected
	err := svc.ChangePassword(ctx, emp.ID, "not-the-password", "new-password-1")
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, emp.ID, "old-password", "new-password-1"))

	// Old password no longer works, the new one does
	_, _, err = svc.Login(ctx, Credentials{Email: "user@example.com", Password: "old-password"})
	require.Error(t, err)

	_, _, err = svc.Login(ctx, Credentials{Email: "user@example.com", Password: "new-password-1"})
	require.NoError(t, err)
}
