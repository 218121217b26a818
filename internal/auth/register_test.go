package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"taskpilot/internal/store"
)

type mockAdder struct {
	addFunc func(ctx context.Context, username, email, password string) error
	calls   int
}

func (m *mockAdder) AddUser(ctx context.Context, username, email, password string) error {
	m.calls++
	if m.addFunc != nil {
		return m.addFunc(ctx, username, email, password)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegister_Success(t *testing.T) {
	adder := &mockAdder{}
	f := NewRegisterFlow(adder, discardLogger())

	got := f.Register(context.Background(), "bob42", "b@x.com", "abcdef", true)
	if got != RegisterSuccess {
		t.Fatalf("expected success, got %d", got)
	}
	if adder.calls != 1 {
		t.Fatalf("expected one store call, got %d", adder.calls)
	}
}

func TestRegister_InvalidEmailShape(t *testing.T) {
	adder := &mockAdder{}
	f := NewRegisterFlow(adder, discardLogger())

	// 邮箱形状检查第一个执行，失败时不能触达存储
	got := f.Register(context.Background(), "bob42", "not-an-email", "abcdef", true)
	if got != RegisterInvalidInput {
		t.Fatalf("expected invalid input, got %d", got)
	}
	if adder.calls != 0 {
		t.Fatalf("store must not be called, got %d calls", adder.calls)
	}
}

func TestRegister_ValidationOrder(t *testing.T) {
	cases := []struct {
		name     string
		username string
		email    string
		password string
		terms    bool
	}{
		{"short username", "bob", "b@x.com", "abcdef", true},
		{"short password", "bob42", "b@x.com", "abc", true},
		{"empty password", "bob42", "b@x.com", "", true},
		{"terms not accepted", "bob42", "b@x.com", "abcdef", false},
		{"email without tld", "bob42", "b@x", "abcdef", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adder := &mockAdder{}
			f := NewRegisterFlow(adder, discardLogger())
			got := f.Register(context.Background(), tc.username, tc.email, tc.password, tc.terms)
			if got != RegisterInvalidInput {
				t.Fatalf("expected invalid input, got %d", got)
			}
			if adder.calls != 0 {
				t.Fatalf("store must not be called")
			}
		})
	}
}

func TestRegister_DuplicateMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want RegisterResult
	}{
		{"username taken", store.ErrUsernameTaken, RegisterUsernameTaken},
		{"exact duplicate", store.ErrUserExists, RegisterUsernameTaken},
		{"email taken", store.ErrEmailTaken, RegisterEmailTaken},
		{"storage failure", errors.New("disk on fire"), RegisterFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adder := &mockAdder{addFunc: func(context.Context, string, string, string) error { return tc.err }}
			f := NewRegisterFlow(adder, discardLogger())
			got := f.Register(context.Background(), "bob42", "b@x.com", "abcdef", true)
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@x.com", "user.name+tag@sub-domain.co.uk", "a_b@x.io"}
	invalid := []string{"", "plain", "@x.com", "a@", "a@x", "a b@x.com"}

	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Fatalf("expected valid: %q", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Fatalf("expected invalid: %q", e)
		}
	}
}
