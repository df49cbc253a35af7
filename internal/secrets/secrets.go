// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files, one
// secret per file: the filename is the key and the trimmed contents the value.
//
// Supported key files: conceptnet-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ConceptNetAPIKey names the file holding the optional ConceptNet bearer token.
const ConceptNetAPIKey = "conceptnet-api-key"

// Secrets maps key names to values. A nil Secrets holds no keys.
type Secrets map[string]string

// Get returns explicit when set, otherwise the loaded value for key.
// Explicit configuration always wins over the secrets directory.
func (s Secrets) Get(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s[key]
}

// Keys returns the loaded key names, sorted. Values are never listed.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads the regular, non-hidden files in dir. A missing directory
// yields empty Secrets; empty files are ignored. Unreadable files are
// logged and skipped. A nil logger discards the warnings.
func Load(dir string, logger *zap.Logger) (Secrets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	switch {
	case os.IsNotExist(err):
		return Secrets{}, nil
	case err != nil:
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Secrets, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable secret", zap.String("key", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}
