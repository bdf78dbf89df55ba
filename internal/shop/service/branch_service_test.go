package service

import (
	"context"
	"strings"
	"testing"

	"github.com/SORencber/smartpunkt-api/internal/shop/entity"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode("Berlin Mitte", func(string) (bool, error) { return false, nil })
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if !strings.HasPrefix(code, "BER") {
		t.Errorf("code = %q, want BER prefix", code)
	}
	if len(code) != 7 {
		t.Errorf("code = %q, want prefix plus 4 digits", code)
	}
}

func TestGenerateCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	code, err := GenerateCode("Ankara", func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if calls != 3 {
		t.Errorf("exists called %d times, want 3", calls)
	}
	if !strings.HasPrefix(code, "ANK") {
		t.Errorf("code = %q, want ANK prefix", code)
	}
}

func TestGenerateCodeGivesUp(t *testing.T) {
	if _, err := GenerateCode("Izmir", func(string) (bool, error) { return true, nil }); err == nil {
		t.Fatal("expected an error when every code collides")
	}
}

func TestCodePrefixFallback(t *testing.T) {
	if got := codePrefix("1234"); got != "BR" {
		t.Errorf("codePrefix(digits) = %q, want BR", got)
	}
	if got := codePrefix("şube"); got != "UBE" {
		t.Errorf("codePrefix = %q, want UBE", got)
	}
}

func TestPartChangeBusOrder(t *testing.T) {
	bus := NewPartChangeBus()
	var order []string
	bus.Subscribe(func(ctx context.Context, change PartChange) {
		order = append(order, "first")
	})
	bus.Subscribe(func(ctx context.Context, change PartChange) {
		order = append(order, "second")
	})

	bus.Publish(context.Background(), PartChange{Part: &entity.Part{ID: "p1"}})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("handlers ran as %v, want subscription order", order)
	}
}
