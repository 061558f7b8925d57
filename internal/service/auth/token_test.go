package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldworks/fleet-tracking/internal/domain/models"
	"github.com/fieldworks/fleet-tracking/internal/domain/types"
	"github.com/fieldworks/fleet-tracking/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

type fakeRefreshRepo struct {
	records map[uuid.UUID]*models.RefreshTokenRecord
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{records: make(map[uuid.UUID]*models.RefreshTokenRecord)}
}

func (f *fakeRefreshRepo) Save(_ context.Context, record *models.RefreshTokenRecord) error {
	r := *record
	f.records[record.ID] = &r
	return nil
}

func (f *fakeRefreshRepo) Get(_ context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error) {
	if r, ok := f.records[tokenID]; ok {
		rec := *r
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeRefreshRepo) MarkUsed(_ context.Context, tokenID uuid.UUID) error {
	if r, ok := f.records[tokenID]; ok {
		r.Revoked = true
	}
	return nil
}

// fakeTxManager runs the function without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testUser() models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	u := models.User{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		FullName:  "Dana Dispatcher",
		Email:     "dana@example.com",
		Role:      types.DispatcherRole,
	}
	u.SetPasswordHash(string(hash))
	return u
}

func newTokenService(users *fakeUserRepo, refresh *fakeRefreshRepo) *TokenService {
	l := logger.InitLogger("auth-test", logger.LevelError)
	return NewTokenService("test-secret", users, refresh, fakeTxManager{}, 24*time.Hour, 15*time.Minute, l)
}

func TestGenerateAndValidate(t *testing.T) {
	user := testUser()
	users := &fakeUserRepo{users: []models.User{user}}
	refresh := newFakeRefreshRepo()
	svc := newTokenService(users, refresh)

	pair, err := svc.GenerateTokens(context.Background(), &user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if len(refresh.records) != 1 {
		t.Fatalf("expected one stored refresh record, got %d", len(refresh.records))
	}

	claims, err := svc.Validate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.TokenType != models.AccessToken {
		t.Fatalf("expected access token type, got %s", claims.TokenType)
	}
	if claims.Role != string(types.DispatcherRole) {
		t.Fatalf("expected dispatcher role claim, got %q", claims.Role)
	}
}

func TestValidate_RejectsGarbage(t *testing.T) {
	svc := newTokenService(&fakeUserRepo{}, newFakeRefreshRepo())

	if _, err := svc.Validate(context.Background(), "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_RejectsWrongSecret(t *testing.T) {
	user := testUser()
	users := &fakeUserRepo{users: []models.User{user}}
	issuer := newTokenService(users, newFakeRefreshRepo())

	pair, err := issuer.GenerateTokens(context.Background(), &user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := logger.InitLogger("auth-test", logger.LevelError)
	verifier := NewTokenService("other-secret", users, newFakeRefreshRepo(), fakeTxManager{}, 24*time.Hour, 15*time.Minute, l)
	if _, err := verifier.Validate(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefresh_RotatesAndRevokes(t *testing.T) {
	user := testUser()
	users := &fakeUserRepo{users: []models.User{user}}
	refresh := newFakeRefreshRepo()
	svc := newTokenService(users, refresh)

	pair, err := svc.GenerateTokens(context.Background(), &user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh must issue a new refresh token")
	}

	// Second use of the original token must fail: single-use rotation.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err == nil {
		t.Fatal("expected replayed refresh token to be rejected")
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	user := testUser()
	users := &fakeUserRepo{users: []models.User{user}}
	svc := newTokenService(users, newFakeRefreshRepo())

	pair, err := svc.GenerateTokens(context.Background(), &user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.AccessToken); err == nil {
		t.Fatal("expected access token to be rejected by refresh")
	}
}

func TestLogin(t *testing.T) {
	user := testUser()
	users := &fakeUserRepo{users: []models.User{user}}
	tokens := newTokenService(users, newFakeRefreshRepo())
	l := logger.InitLogger("auth-test", logger.LevelError)
	svc := NewAuthService(users, tokens, l)

	pair, err := svc.Login(context.Background(), user.Email, "s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatal("expected an access token")
	}

	if _, err := svc.Login(context.Background(), user.Email, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRoleCheck(t *testing.T) {
	user := testUser()
	users := &fakeUserRepo{users: []models.User{user}}
	tokens := newTokenService(users, newFakeRefreshRepo())
	l := logger.InitLogger("auth-test", logger.LevelError)
	svc := NewAuthService(users, tokens, l)

	pair, err := tokens.GenerateTokens(context.Background(), &user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.RoleCheck(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID || got.Role != types.DispatcherRole {
		t.Fatalf("unexpected user %+v", got)
	}

	// Refresh tokens are not session credentials.
	if _, err := svc.RoleCheck(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh token, got %v", err)
	}
}
