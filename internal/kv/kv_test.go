package kv

import (
	"path/filepath"
	"testing"
)

func TestGet_AbsentKeyReturnsNil(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer s.Close()

	v, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v != nil {
		t.Errorf("Get() = %q, want nil", v)
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer s.Close()

	if err := s.Set("playlist", []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, err := s.Get("playlist")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(v) != `[]` {
		t.Errorf("Get() = %q, want []", v)
	}
}

func TestSet_OverwritesPreviousValue(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer s.Close()

	if err := s.Set("k", []byte("old")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("k", []byte("new")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(v) != "new" {
		t.Errorf("Get() = %q, want new", v)
	}
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tonearm.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
}

func TestOpen_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tonearm.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()

	v, err := s2.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(v) != "v" {
		t.Errorf("Get() = %q, want v", v)
	}
}
