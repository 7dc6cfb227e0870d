package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScaffoldWorkspace creates the nova workspace layout in the given
// directory: nova.toml, the .nova state directory, and a .gitignore entry
// keeping session logs out of version control. Files that already exist are
// left untouched. Returns the list of created paths.
func ScaffoldWorkspace(dir string) ([]string, error) {
	var created []string

	tomlPath := filepath.Join(dir, "nova.toml")
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	stateDir := filepath.Join(dir, ".nova")
	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Join(stateDir, "telemetry"), 0755); mkErr != nil {
			return created, fmt.Errorf("scaffold: create %s: %w", stateDir, mkErr)
		}
		created = append(created, stateDir)
	}

	// Session logs and diagnostics stay out of version control.
	const gitignoreEntry = ".nova/"
	gitignorePath := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreEntry+"\n"), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	} else if err != nil {
		return created, fmt.Errorf("scaffold: read %s: %w", gitignorePath, err)
	} else if !strings.Contains(string(existing), gitignoreEntry) {
		content := string(existing)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += gitignoreEntry + "\n"
		if writeErr := os.WriteFile(gitignorePath, []byte(content), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	}

	return created, nil
}
