package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"octoallure/internal/allure"
)

// WriteResult serializes an Allure result to {uuid}-result.json in dir and
// returns the written path.
func WriteResult(dir string, res *allure.Result) (string, error) {
	return writeJSON(dir, res.UUID+"-result.json", res)
}

// WriteContainer serializes an Allure container to {uuid}-container.json in
// dir and returns the written path.
func WriteContainer(dir string, container *allure.Container) (string, error) {
	return writeJSON(dir, container.UUID+"-container.json", container)
}

func writeJSON(dir, name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
