package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "hueru.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCredentials_EmptyStore(t *testing.T) {
	s := openTestStore(t)

	c, err := s.Credentials()
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil credentials, got %+v", c)
	}
}

func TestCredentials_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := Credentials{Host: "192.168.1.10", Username: "abc123"}
	if err := s.SaveCredentials(want); err != nil {
		t.Fatalf("SaveCredentials: %v", err)
	}

	got, err := s.Credentials()
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCredentials_SaveReplaces(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveCredentials(Credentials{Host: "old", Username: "old-user"}); err != nil {
		t.Fatal(err)
	}
	want := Credentials{Host: "new", Username: "new-user"}
	if err := s.SaveCredentials(want); err != nil {
		t.Fatal(err)
	}

	got, err := s.Credentials()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDeleteCredentials(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveCredentials(Credentials{Host: "h", Username: "u"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteCredentials(); err != nil {
		t.Fatalf("DeleteCredentials: %v", err)
	}

	c, err := s.Credentials()
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Errorf("expected nil after delete, got %+v", c)
	}

	// Deleting an already-empty store is fine.
	if err := s.DeleteCredentials(); err != nil {
		t.Errorf("DeleteCredentials on empty store: %v", err)
	}
}
