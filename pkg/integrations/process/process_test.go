package process

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseStatName(t *testing.T) {
	tests := []struct {
		stat string
		want string
		ok   bool
	}{
		{"1234 (firefox) S 1 1234 1234 0 -1", "firefox", true},
		{"42 (Web Content) S 1", "Web Content", true},
		{"7 (weird) name)) R 1", "weird) name)", true},
		{"7 () R 1", "", false},
		{"garbage", "", false},
	}

	for _, tt := range tests {
		got, ok := parseStatName(tt.stat)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseStatName(%q) = %q, %v; want %q, %v", tt.stat, got, ok, tt.want, tt.ok)
		}
	}
}

func TestName(t *testing.T) {
	root := t.TempDir()
	old := procRoot
	procRoot = root
	t.Cleanup(func() { procRoot = old })

	if err := os.MkdirAll(filepath.Join(root, "99"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "99", "stat"), []byte("99 (kitty) S 1 99"), 0o644); err != nil {
		t.Fatal(err)
	}

	name, err := Name(99)
	if err != nil {
		t.Fatalf("Name(99) error: %v", err)
	}
	if name != "kitty" {
		t.Errorf("Name(99) = %q, want kitty", name)
	}

	if _, err := Name(100); err == nil {
		t.Error("Name(100) succeeded for missing pid")
	}
	if _, err := Name(0); err == nil {
		t.Error("Name(0) succeeded")
	}
}
