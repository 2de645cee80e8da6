package util

import (
	"os"
	"path/filepath"
)

// AppendToFile appends every string as a line to the file at savePath,
// creating the file and its directory if needed
func AppendToFile(savePath string, content ...string) error {
	if dir := filepath.Dir(savePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}
