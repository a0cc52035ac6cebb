package problem

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestFunc_Invoke(t *testing.T) {
	add := Func(func(a, b int) int { return a + b })

	got, err := add.Invoke([]any{2, 3}, nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != 5 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestFunc_NumericConversion(t *testing.T) {
	half := Func(func(x float64) float64 { return x / 2 })

	got, err := half.Invoke([]any{5}, nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
}

func TestFunc_IntArgumentDoesNotBecomeString(t *testing.T) {
	echo := Func(func(s string) string { return s })

	_, err := echo.Invoke([]any{65}, nil)
	if !errors.Is(err, ErrNotInvocable) {
		t.Fatalf("invoke with int for string: err = %v, want ErrNotInvocable", err)
	}
}

func TestFunc_Variadic(t *testing.T) {
	sum := Func(func(vals ...int) int {
		total := 0
		for _, v := range vals {
			total += v
		}
		return total
	})

	got, err := sum.Invoke([]any{1, 2, 3, 4}, nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != 10 {
		t.Errorf("got %v, want 10", got)
	}
}

func TestFunc_WrongArity(t *testing.T) {
	add := Func(func(a, b int) int { return a + b })

	_, err := add.Invoke([]any{1}, nil)
	if !errors.Is(err, ErrNotInvocable) {
		t.Fatalf("expected ErrNotInvocable, got %v", err)
	}
}

func TestFunc_KwargsTrailingMap(t *testing.T) {
	greet := Func(func(name string, opts map[string]any) string {
		if punct, ok := opts["punct"].(string); ok {
			return "hi " + name + punct
		}
		return "hi " + name
	})

	got, err := greet.Invoke([]any{"ada"}, map[string]any{"punct": "!"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got != "hi ada!" {
		t.Errorf("got %v, want \"hi ada!\"", got)
	}
}

func TestFunc_KwargsRejectedWithoutMapParam(t *testing.T) {
	add := Func(func(a, b int) int { return a + b })

	_, err := add.Invoke([]any{1, 2}, map[string]any{"x": 1})
	if !errors.Is(err, ErrNotInvocable) {
		t.Fatalf("expected ErrNotInvocable, got %v", err)
	}
}

func TestFunc_ErrorResult(t *testing.T) {
	boom := errors.New("boom")
	failing := Func(func() (int, error) { return 0, boom })

	_, err := failing.Invoke(nil, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the subject's error, got %v", err)
	}
}

func TestFunc_NotAFunction(t *testing.T) {
	_, err := Func(42).Invoke(nil, nil)
	if !errors.Is(err, ErrNotInvocable) {
		t.Fatalf("expected ErrNotInvocable, got %v", err)
	}
}

type account struct {
	Owner   string
	balance int
}

func newAccount(owner string) *account { return &account{Owner: owner} }

func (a *account) Deposit(n int) { a.balance += n }

func (a *account) Balance() int { return a.balance }

func TestClass_ConstructCallProperty(t *testing.T) {
	subject := Class(newAccount)

	inst, err := subject.Construct([]any{"ada"}, nil)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	if _, err := inst.Call("Deposit", []any{50}, nil); err != nil {
		t.Fatalf("call Deposit: %v", err)
	}

	got, err := inst.Call("Balance", nil, nil)
	if err != nil {
		t.Fatalf("call Balance: %v", err)
	}
	if got != 50 {
		t.Errorf("balance = %v, want 50", got)
	}

	owner, err := inst.Property("Owner")
	if err != nil {
		t.Fatalf("property Owner: %v", err)
	}
	if owner != "ada" {
		t.Errorf("owner = %v, want ada", owner)
	}

	// Accessor methods back plain property lookups.
	bal, err := inst.Property("Balance")
	if err != nil {
		t.Fatalf("property Balance: %v", err)
	}
	if bal != 50 {
		t.Errorf("balance property = %v, want 50", bal)
	}
}

func TestClass_UnknownMethodAndProperty(t *testing.T) {
	subject := Class(newAccount)
	inst, err := subject.Construct([]any{"ada"}, nil)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	if _, err := inst.Call("Withdraw", nil, nil); !errors.Is(err, ErrNotInvocable) {
		t.Errorf("unknown method: expected ErrNotInvocable, got %v", err)
	}
	if _, err := inst.Property("Interest"); !errors.Is(err, ErrNotInvocable) {
		t.Errorf("unknown property: expected ErrNotInvocable, got %v", err)
	}
}

func TestInputFeed_ReadLineInOrder(t *testing.T) {
	feed := NewInputFeed([]string{"a", "b"})

	for _, want := range []string{"a", "b"} {
		got, err := feed.ReadLine()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if feed.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", feed.Remaining())
	}
}

func TestInputFeed_Exhaustion(t *testing.T) {
	feed := NewInputFeed([]string{"only"})
	if _, err := feed.ReadLine(); err != nil {
		t.Fatalf("first read: %v", err)
	}

	_, err := feed.ReadLine()
	if !errors.Is(err, ErrInputExhausted) {
		t.Fatalf("expected ErrInputExhausted, got %v", err)
	}
	if !strings.Contains(err.Error(), "answer 2") {
		t.Errorf("error should name the offending request: %v", err)
	}
}

func TestInputFeed_Reader(t *testing.T) {
	feed := NewInputFeed([]string{"ada", "grace"})
	r := feed.Reader()

	var sb strings.Builder
	_, err := io.Copy(&sb, r)
	if !errors.Is(err, ErrInputExhausted) {
		t.Fatalf("expected ErrInputExhausted after the last line, got %v", err)
	}
	if sb.String() != "ada\ngrace\n" {
		t.Errorf("read %q, want newline-terminated lines", sb.String())
	}
}

func TestScript_RunsAgainstFeed(t *testing.T) {
	echo := Script(func(in *InputFeed) error {
		line, err := in.ReadLine()
		if err != nil {
			return err
		}
		fmt.Fprintln(io.Discard, line)
		return nil
	})

	if err := echo.RunScript(NewInputFeed([]string{"hi"})); err != nil {
		t.Fatalf("run script: %v", err)
	}
}
