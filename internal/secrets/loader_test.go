package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	t.Setenv("LEXNORM_TEST_KEY", "from-env")

	got, err := Load(Source{Name: "gemini api key", File: path, Env: "LEXNORM_TEST_KEY", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file secret, got %q", got)
	}
}

func TestLoadFallsBackToEnvThenValue(t *testing.T) {
	t.Setenv("LEXNORM_TEST_KEY", " from-env ")

	got, err := Load(Source{Env: "LEXNORM_TEST_KEY", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env" {
		t.Fatalf("expected env secret, got %q", got)
	}

	t.Setenv("LEXNORM_TEST_KEY", "")
	got, err = Load(Source{Env: "LEXNORM_TEST_KEY", Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline" {
		t.Fatalf("expected inline secret, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	cases := []struct {
		name string
		src  Source
		want string
	}{
		{name: "missing file", src: Source{Name: "key", File: filepath.Join(t.TempDir(), "nope")}, want: "reading key from file"},
		{name: "empty file", src: Source{Name: "key", File: empty}, want: "is empty"},
		{name: "nothing configured", src: Source{}, want: "secret is not configured"},
		{name: "env hint", src: Source{Name: "key", Env: "LEXNORM_UNSET_VAR"}, want: "set LEXNORM_UNSET_VAR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.src)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}
