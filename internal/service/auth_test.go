package service

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgcrypto "github.com/avolkov/tapedeck/internal/crypto"
	"github.com/avolkov/tapedeck/internal/errs"
	"github.com/avolkov/tapedeck/internal/limiter"
	"github.com/avolkov/tapedeck/internal/model"
	"github.com/avolkov/tapedeck/internal/repository"
)

type fakeUsers struct {
	byName map[string]*model.User
	nextID int64

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*model.User{}, nextID: 1}
}

func (f *fakeUsers) Create(_ context.Context, username, pwdHash string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, exists := f.byName[username]; exists {
		return 0, errs.ErrAlreadyExists
	}
	id := f.nextID
	f.nextID++
	f.byName[username] = &model.User{ID: id, Username: username, PwdHash: pwdHash, Status: model.AccountActive}
	return id, nil
}

func (f *fakeUsers) GetActiveByUsername(_ context.Context, username string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok || u.Status != model.AccountActive {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) UpdateUsername(_ context.Context, id int64, username string) (bool, error) {
	for old, u := range f.byName {
		if u.ID == id {
			if other, exists := f.byName[username]; exists && other.ID != id {
				return false, errs.ErrAlreadyExists
			}
			u.Username = username
			delete(f.byName, old)
			f.byName[username] = u
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) UpdatePicture(_ context.Context, id int64, picture string) (bool, error) {
	for _, u := range f.byName {
		if u.ID == id {
			u.Picture = picture
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Deactivate(_ context.Context, id int64) (bool, error) {
	for _, u := range f.byName {
		if u.ID == id && u.Status == model.AccountActive {
			u.Status = model.AccountDeactivated
			return true, nil
		}
	}
	return false, nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, nil
}

func TestAuth_Register_Basics(t *testing.T) {
	t.Parallel()
	users := newFakeUsers()
	s := NewAuthService(users, []byte("k"), time.Minute, &fakeLimiter{})

	if _, err := s.Register(context.Background(), "", ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation on empty username/password, got %v", err)
	}

	id, err := s.Register(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == 0 {
		t.Fatalf("empty user id")
	}
	if users.byName["alice"].PwdHash == "pw1" {
		t.Fatalf("password stored in plaintext")
	}

	if _, err := s.Register(context.Background(), "alice", "pw2"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists on duplicate username, got %v", err)
	}

	users.createErr = errors.New("boom")
	if _, err := s.Register(context.Background(), "bob", "pw"); err == nil {
		t.Fatalf("want propagated repo error")
	}
}

func TestAuth_LoginWithIP_RateLimiterAndCreds(t *testing.T) {
	t.Parallel()

	hash, err := pkgcrypto.HashPassword("correct")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	users := newFakeUsers()
	users.byName["alice"] = &model.User{ID: 7, Username: "alice", PwdHash: hash, Picture: "p.png", Status: model.AccountActive}

	lim := &fakeLimiter{allowOK: true}
	s := NewAuthService(users, []byte("secret"), 2*time.Minute, lim)

	lim.allowErr = errors.New("lim-err")
	if _, _, err := s.LoginWithIP(context.Background(), "alice", "correct", "1.2.3.4"); err == nil {
		t.Fatalf("want limiter error propagate")
	}
	lim.allowErr = nil

	lim.allowOK = false
	if _, _, err := s.LoginWithIP(context.Background(), "alice", "correct", "1.2.3.4"); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
	lim.allowOK = true

	if _, _, err := s.LoginWithIP(context.Background(), "nobody", "x", ""); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on missing user, got %v", err)
	}

	lim.failBlocked = true
	if _, _, err := s.LoginWithIP(context.Background(), "alice", "wrong", ""); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited on blocked after failure, got %v", err)
	}

	lim.failBlocked = false
	if _, _, err := s.LoginWithIP(context.Background(), "alice", "wrong", ""); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on wrong password, got %v", err)
	}

	token, user, err := s.LoginWithIP(context.Background(), "alice", "correct", "127.0.0.1:123")
	if err != nil {
		t.Fatalf("LoginWithIP success: %v", err)
	}
	if token == "" || user.Picture != "p.png" {
		t.Fatalf("bad login result: token=%q user=%+v", token, user)
	}
	if lim.successCalls == 0 {
		t.Fatalf("expected Success() to be called")
	}

	p, err := s.CheckToken(token)
	if err != nil {
		t.Fatalf("CheckToken: %v", err)
	}
	if p.ID != 7 || p.Username != "alice" {
		t.Fatalf("bad principal: %+v", p)
	}
}

func TestAuth_DeactivatedCannotLogin(t *testing.T) {
	t.Parallel()

	hash, _ := pkgcrypto.HashPassword("pw")
	users := newFakeUsers()
	users.byName["bob"] = &model.User{ID: 3, Username: "bob", PwdHash: hash, Status: model.AccountActive}
	s := NewAuthService(users, []byte("k"), time.Minute, &fakeLimiter{allowOK: true})

	if ok, err := s.Deactivate(context.Background(), 3); err != nil || !ok {
		t.Fatalf("Deactivate: ok=%v err=%v", ok, err)
	}
	if _, _, err := s.LoginWithIP(context.Background(), "bob", "pw", ""); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for deactivated account, got %v", err)
	}
	// second deactivation is a no-op
	if ok, err := s.Deactivate(context.Background(), 3); err != nil || ok {
		t.Fatalf("want no-op second deactivation, ok=%v err=%v", ok, err)
	}
}

func TestAuth_TokenVerification(t *testing.T) {
	t.Parallel()

	hash, _ := pkgcrypto.HashPassword("pw")
	users := newFakeUsers()
	users.byName["eve"] = &model.User{ID: 9, Username: "eve", PwdHash: hash, Status: model.AccountActive}

	// negative TTL produces an immediately expired token
	expired := NewAuthService(users, []byte("k"), -time.Minute, &fakeLimiter{allowOK: true})
	token, _, err := expired.LoginWithIP(context.Background(), "eve", "pw", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := expired.CheckToken(token); !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}

	// token signed with another key fails verification
	other := NewAuthService(users, []byte("other"), time.Minute, &fakeLimiter{allowOK: true})
	token2, _, err := other.LoginWithIP(context.Background(), "eve", "pw", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := ParseToken([]byte("k"), token2); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for wrong key, got %v", err)
	}

	if _, err := ParseToken([]byte("k"), "not-a-token"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for garbage, got %v", err)
	}
}

func TestAuth_UpdateUsername(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	users.byName["carl"] = &model.User{ID: 2, Username: "carl", Status: model.AccountActive}
	users.byName["dora"] = &model.User{ID: 4, Username: "dora", Status: model.AccountActive}
	s := NewAuthService(users, []byte("k"), time.Minute, &fakeLimiter{})

	if _, err := s.UpdateUsername(context.Background(), 2, ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation on empty username, got %v", err)
	}
	if _, err := s.UpdateUsername(context.Background(), 2, "dora"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists on taken username, got %v", err)
	}
	ok, err := s.UpdateUsername(context.Background(), 2, "carlos")
	if err != nil || !ok {
		t.Fatalf("UpdateUsername: ok=%v err=%v", ok, err)
	}
}
