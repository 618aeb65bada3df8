package config

import (
	"fmt"
	"os"
	"strings"
)

const apiKeyVar = "OPENAI_API_KEY"

// SaveAPIKey writes key into the .env file at path, replacing an existing
// OPENAI_API_KEY line or appending one. The file is created if missing.
func SaveAPIKey(path, key string) error {
	line := fmt.Sprintf("%s=%s\n", apiKeyVar, key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return os.WriteFile(path, []byte(line), 0o600)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return os.WriteFile(path, []byte(line), 0o600)
	}

	var b strings.Builder
	found := false
	for _, l := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if strings.HasPrefix(l, apiKeyVar+"=") {
			b.WriteString(strings.TrimSuffix(line, "\n"))
			found = true
		} else {
			b.WriteString(l)
		}
		b.WriteString("\n")
	}
	if !found {
		b.WriteString(line)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
