package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/weather-dashboard/internal/apperror"
	"github.com/sakif/weather-dashboard/internal/auth"
	"github.com/sakif/weather-dashboard/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// Using a fake (not a mock framework) keeps tests dependency-free and easy
// to read — you can see exactly what the fake does.
type fakeUserRepo struct {
	users map[string]*model.User // keyed by username
	// set to a non-nil error to simulate a database failure
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.Username] = &copied
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	copied := *u
	return &copied, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService returns an AuthService wired with fake and cheap
// dependencies (bcrypt cost 4, short test secret).
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	sessions, err := auth.NewSessionService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)

	return NewAuthService(repo, passwords, sessions, testLogger())
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if err := svc.Register(context.Background(), "frosty", "let-it-snow"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	stored, ok := repo.users["frosty"]
	if !ok {
		t.Fatal("Register() did not store the user")
	}
	if stored.PasswordHash == "let-it-snow" {
		t.Error("password was stored in plain text")
	}
	if stored.ID == "" {
		t.Error("stored user has no ID")
	}
}

func TestRegister_TrimsFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if err := svc.Register(context.Background(), "  frosty  ", "  pw-with-padding  "); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, ok := repo.users["frosty"]; !ok {
		t.Error("username was not trimmed before storage")
	}
}

func TestRegister_EmptyFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	tests := []struct {
		name               string
		username, password string
	}{
		{"empty username", "", "password"},
		{"empty password", "frosty", ""},
		{"whitespace only", "   ", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateKeepsOriginalHash(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if err := svc.Register(context.Background(), "frosty", "original-password"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	originalHash := repo.users["frosty"].PasswordHash

	// Second registration with the same username must fail with a conflict
	// and must not alter the stored hash.
	err := svc.Register(context.Background(), "frosty", "different-password")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Register() error = %v, want ErrConflict", err)
	}
	if repo.users["frosty"].PasswordHash != originalHash {
		t.Error("duplicate registration altered the stored password hash")
	}

	// NOTE: the pre-check is check-then-act with no transaction — two truly
	// concurrent registrations can both pass it. That race is inherited
	// behavior; the UNIQUE constraint in the sqlite layer only backstops it.
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if err := svc.Register(context.Background(), "frosty", "let-it-snow"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	token, err := svc.Login(context.Background(), "frosty", "let-it-snow")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned an empty session token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	if err := svc.Register(context.Background(), "frosty", "let-it-snow"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	token, err := svc.Login(context.Background(), "frosty", "wrong-password")
	if !errors.Is(err, apperror.ErrAuth) {
		t.Fatalf("Login() error = %v, want ErrAuth", err)
	}
	if token != "" {
		t.Error("Login() returned a token despite failing")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	if !errors.Is(err, apperror.ErrAuth) {
		t.Fatalf("Login() error = %v, want ErrAuth", err)
	}

	// Unknown-user and wrong-password messages must be identical so the form
	// can't be used to probe which usernames exist.
	wrongPw := func() error {
		svc.Register(context.Background(), "someone", "real-password")
		_, err := svc.Login(context.Background(), "someone", "bad-guess")
		return err
	}()
	if err.Error() != wrongPw.Error() {
		t.Errorf("unknown-user message %q differs from wrong-password message %q",
			err.Error(), wrongPw.Error())
	}
}

func TestLogin_EmptyFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login() error = %v, want ErrValidation", err)
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("database is on fire")
	svc := newTestAuthService(t, repo)

	if err := svc.Register(context.Background(), "frosty", "let-it-snow"); err == nil {
		t.Fatal("Register() should propagate repository errors")
	}
}
