package services_test

import (
	"errors"
	"testing"

	"poolquote/internal/repos"
	"poolquote/internal/services"
)

func TestLoginAndSessionLifecycle(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Users: repos.NewUserRepo(db)}

	if _, err := auth.Login("sid-1", "admin@poolquote.test", "letmein"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("wrong password must fail with ErrBadCreds, got %v", err)
	}
	if _, err := auth.Login("sid-1", "nikdo@poolquote.test", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown email must fail with ErrBadCreds, got %v", err)
	}

	// surrounding whitespace from the login form is tolerated
	u, err := auth.Login("sid-1", "  admin@poolquote.test ", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsAdmin() {
		t.Fatalf("seeded admin account must carry the ADMIN role: %+v", u)
	}

	cur, err := auth.CurrentUser("sid-1")
	if err != nil || cur.ID != u.ID {
		t.Fatalf("session must resolve to the logged-in user: %v %+v", err, cur)
	}

	if err := auth.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.CurrentUser("sid-1"); err == nil {
		t.Fatal("logged-out session must not resolve to a user")
	}
}

func TestLoginSalesRole(t *testing.T) {
	db := memdb(t)
	auth := &services.AuthService{Users: repos.NewUserRepo(db)}

	u, err := auth.Login("sid-2", "obchod@poolquote.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.IsAdmin() {
		t.Fatalf("sales account must not pass the admin check: %+v", u)
	}
}
