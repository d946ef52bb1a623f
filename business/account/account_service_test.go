package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"denimatch/domain"
	"denimatch/pkg/utils"

	"github.com/go-playground/validator/v10"
)

type fakeProfileRepo struct {
	byEmail map[string]domain.Profile
	created *domain.Profile
	nextID  uint
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byEmail: make(map[string]domain.Profile), nextID: 1}
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	profile.ID = f.nextID
	f.nextID++
	f.byEmail[profile.Email] = *profile
	f.created = profile
	return nil
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, id uint) (domain.Profile, error) {
	for _, p := range f.byEmail {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Profile{}, errors.New("profile not found")
}

func (f *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (domain.Profile, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return domain.Profile{}, errors.New("profile not found")
	}
	return p, nil
}

type fakeTokenRepo struct {
	tokens map[string]string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]string)}
}

func (f *fakeTokenRepo) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenRepo) ValidateToken(ctx context.Context, token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", errors.New("token not found")
	}
	return userID, nil
}

func (f *fakeTokenRepo) DeleteToken(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func newTestService(profiles *fakeProfileRepo, tokens *fakeTokenRepo) *Service {
	return NewService(profiles, tokens, validator.New(), TasteDefaults{
		BaseDecay: 0.985,
		ClampMin:  -30,
		ClampMax:  30,
	})
}

func TestRegisterSeedsTasteDefaults(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := newTestService(profiles, newFakeTokenRepo())

	profile, err := svc.Register(context.Background(), "Jane Doe", "jane@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if profile.Role != RoleMember {
		t.Errorf("role = %q", profile.Role)
	}
	if profile.TasteDecay != 0.985 || profile.TasteClampMin != -30 || profile.TasteClampMax != 30 {
		t.Errorf("taste defaults not seeded: %+v", profile)
	}
	if profiles.created == nil || profiles.created.PasswordHash == "secret1" {
		t.Error("password must be stored hashed")
	}
	if !utils.CheckPassword(profile.PasswordHash, "secret1") {
		t.Error("stored hash does not verify")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeProfileRepo(), newFakeTokenRepo())

	if _, err := svc.Register(context.Background(), "Jane", "not-an-email", "secret1"); err == nil {
		t.Error("invalid email accepted")
	}
	if _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "short"); err == nil {
		t.Error("short password accepted")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := newTestService(profiles, newFakeTokenRepo())

	if _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "secret1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Other Jane", "jane@example.com", "secret2"); err == nil {
		t.Error("duplicate email accepted")
	}
}

func TestLoginAndLogout(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	profiles := newFakeProfileRepo()
	tokens := newFakeTokenRepo()
	svc := newTestService(profiles, tokens)

	if _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, profile, err := svc.Login(context.Background(), "jane@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || profile.Email != "jane@example.com" {
		t.Errorf("login result: token=%q profile=%+v", token, profile)
	}

	userID, err := svc.ValidateTokenFromRedis(context.Background(), token)
	if err != nil || userID == "" {
		t.Errorf("token should validate: %v", err)
	}

	claims, err := utils.ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != userID || claims.Role != RoleMember {
		t.Errorf("claims = %+v, redis user = %s", claims, userID)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ValidateTokenFromRedis(context.Background(), token); err == nil {
		t.Error("token should be revoked after logout")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := newTestService(newFakeProfileRepo(), newFakeTokenRepo())
	if _, err := svc.Register(context.Background(), "Jane", "jane@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "jane@example.com", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1"); err == nil {
		t.Error("unknown email accepted")
	}
}
