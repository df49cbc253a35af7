// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   Secrets
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ConceptNetAPIKey, "  cn_abc123  \n")
				writeFile(t, dir, "other-key", "sk_xyz789")
				return dir
			},
			want: Secrets{
				ConceptNetAPIKey: "cn_abc123",
				"other-key":      "sk_xyz789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ConceptNetAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Secrets{
				ConceptNetAPIKey: "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, ConceptNetAPIKey, "cn_real")
				return dir
			},
			want: Secrets{
				ConceptNetAPIKey: "cn_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ConceptNetAPIKey, "cn_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{
				ConceptNetAPIKey: "cn_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: Secrets{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, nil)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, nil)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSecretsGet(t *testing.T) {
	s := Secrets{ConceptNetAPIKey: "from-file"}
	assert.Equal(t, "explicit", s.Get(ConceptNetAPIKey, "explicit"))
	assert.Equal(t, "from-file", s.Get(ConceptNetAPIKey, ""))
	assert.Equal(t, "", s.Get("missing", ""))

	var none Secrets
	assert.Equal(t, "", none.Get(ConceptNetAPIKey, ""))
}

func TestSecretsKeys(t *testing.T) {
	s := Secrets{"zeta": "1", ConceptNetAPIKey: "2", "alpha": "3"}
	assert.Equal(t, []string{"alpha", ConceptNetAPIKey, "zeta"}, s.Keys())
	assert.Empty(t, Secrets(nil).Keys())
}

func TestLoadSkipsSymlinkedDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConceptNetAPIKey, "cn_1")
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(dir, "linked")))

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, Secrets{ConceptNetAPIKey: "cn_1"}, got)
}
