//go:build !integration

package account

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pythonvista/intelligent-libary-sub000/domain"
	"github.com/pythonvista/intelligent-libary-sub000/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.InitJWT("unit-test-secret")
	os.Exit(m.Run())
}

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return domain.User{}, errors.New("user not found")
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, errors.New("user not found")
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return errors.New("user not found")
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(f.users, id)
	return nil
}

type fakeSessionRepo struct {
	stored  map[string]string
	deleted int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{stored: make(map[string]string)}
}

func (f *fakeSessionRepo) StoreSession(_ context.Context, userID, token string, _ time.Duration) error {
	f.stored[userID] = token
	return nil
}

func (f *fakeSessionRepo) DeleteSession(_ context.Context, userID, _ string) error {
	delete(f.stored, userID)
	f.deleted++
	return nil
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAccountService(users, validator.New(), newFakeSessionRepo())

	got, err := svc.Register(context.Background(), &domain.User{
		FullName: "Sari",
		Email:    "sari@example.com",
		Password: "rahasia1",
		Role:     "admin", // must be ignored on self-registration
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Role != RoleMember {
		t.Errorf("role = %q, want %q", got.Role, RoleMember)
	}
	if got.Password != "" {
		t.Error("password leaked in the response")
	}

	stored := users.users[got.ID]
	if stored.Password == "rahasia1" {
		t.Error("password stored in plaintext")
	}
	if !utils.CheckPassword("rahasia1", stored.Password) {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAccountService(newFakeUserRepo(), validator.New(), newFakeSessionRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &domain.User{Email: "not-an-email", Password: "rahasia1"}); err == nil {
		t.Error("expected error for malformed email")
	}
	if _, err := svc.Register(ctx, &domain.User{Email: "ok@example.com", Password: "abc"}); err == nil {
		t.Error("expected error for short password")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewAccountService(newFakeUserRepo(), validator.New(), newFakeSessionRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &domain.User{Email: "dup@example.com", Password: "rahasia1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, &domain.User{Email: "dup@example.com", Password: "rahasia2"})
	if err == nil || err.Error() != "email already exists" {
		t.Errorf("err = %v, want email already exists", err)
	}
}

func TestLogin_IssuesTokenAndStoresSession(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	svc := NewAccountService(users, validator.New(), sessions)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &domain.User{Email: "sari@example.com", Password: "rahasia1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(ctx, "sari@example.com", "rahasia1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if user.Password != "" {
		t.Error("password leaked in the login response")
	}

	claims, err := utils.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	wantID := strconv.FormatUint(uint64(registered.ID), 10)
	if claims.UserID != wantID {
		t.Errorf("token user_id = %q, want %q", claims.UserID, wantID)
	}

	if sessions.stored[wantID] != token {
		t.Error("session not stored for the issued token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewAccountService(newFakeUserRepo(), validator.New(), newFakeSessionRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &domain.User{Email: "sari@example.com", Password: "rahasia1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(ctx, "sari@example.com", "salah123")
	if err == nil || err.Error() != "incorrect password" {
		t.Errorf("err = %v, want incorrect password", err)
	}
}

func TestLogout_DropsSession(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	svc := NewAccountService(users, validator.New(), sessions)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &domain.User{Email: "sari@example.com", Password: "rahasia1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token, _, err := svc.Login(ctx, "sari@example.com", "rahasia1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, registered.ID, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.deleted != 1 {
		t.Errorf("deleted %d sessions, want 1", sessions.deleted)
	}
	if len(sessions.stored) != 0 {
		t.Error("session still stored after logout")
	}
}

func TestUpdateUser_RoleAndEmailGuards(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAccountService(users, validator.New(), newFakeSessionRepo())
	ctx := context.Background()

	first, err := svc.Register(ctx, &domain.User{FullName: "Sari", Email: "sari@example.com", Password: "rahasia1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, &domain.User{FullName: "Budi", Email: "budi@example.com", Password: "rahasia1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.UpdateUser(ctx, first.ID, &domain.User{Role: "superuser"}); err == nil || err.Error() != "invalid role" {
		t.Errorf("bad role: err = %v", err)
	}

	if _, err := svc.UpdateUser(ctx, first.ID, &domain.User{Email: "budi@example.com"}); err == nil || err.Error() != "email already exists" {
		t.Errorf("taken email: err = %v", err)
	}

	got, err := svc.UpdateUser(ctx, first.ID, &domain.User{FullName: "Sari Dewi", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FullName != "Sari Dewi" || got.Role != RoleAdmin {
		t.Errorf("updated user = %+v", got)
	}
}

func TestGetAllUsers_ScrubsPasswords(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAccountService(users, validator.New(), newFakeSessionRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &domain.User{Email: "a@example.com", Password: "rahasia1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, &domain.User{Email: "b@example.com", Password: "rahasia1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.GetAllUsers(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d users, want 2", len(got))
	}
	for _, u := range got {
		if u.Password != "" {
			t.Errorf("password leaked for %s", u.Email)
		}
	}
}
