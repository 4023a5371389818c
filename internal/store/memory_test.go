package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemory_CreateAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	defer s.Close()

	a := &Account{Username: "google.1", Email: "a@gmail.com", State: StateEnabled}
	if err := s.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == "" {
		t.Fatal("Create must assign an id")
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Fatal("Create must set timestamps")
	}

	got, err := s.ByUsername(ctx, "google.1")
	if err != nil {
		t.Fatalf("ByUsername: %v", err)
	}
	if got.Email != "a@gmail.com" {
		t.Fatalf("Email = %q", got.Email)
	}

	// la copia devuelta no aliasa el registro interno
	got.Email = "mutated@gmail.com"
	again, _ := s.ByUsername(ctx, "google.1")
	if again.Email != "a@gmail.com" {
		t.Fatal("ByUsername must return a copy")
	}
}

func TestMemory_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if err := s.Create(ctx, &Account{Username: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, &Account{Username: "x"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestMemory_SaveUnknownAccount(t *testing.T) {
	s := NewMemory()
	err := s.Save(context.Background(), &Account{Username: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemory_SaveUpdatesFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	a := &Account{Username: "google.1", Email: "old@gmail.com"}
	if err := s.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	a.Email = "new@gmail.com"
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _ := s.ByUsername(ctx, "google.1")
	if got.Email != "new@gmail.com" {
		t.Fatalf("Email = %q after Save", got.Email)
	}
}
