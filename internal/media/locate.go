package media

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Locate resolves a binary by name. Explicit paths are checked as-is;
// bare names are looked up on PATH first and then in extraDirs.
func Locate(name string, extraDirs []string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s is not an executable file", name)
	}

	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}

	for _, dir := range extraDirs {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s not found in PATH or %v", name, extraDirs)
}

func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return false
	}
	return fi.Mode()&0111 != 0
}
