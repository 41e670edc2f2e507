package paths

import (
	"os"
	"path/filepath"
)

// DataDirEnv names the environment variable that, if set, is searched for
// data files before any other directory.
const DataDirEnv = "CEL_DATA_DIR"

// possibleDirs returns the directories searched by Find, in order.
func possibleDirs() []string {
	var dirs []string
	if d := os.Getenv(DataDirEnv); d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, ".", "datafiles")
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "datafiles"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "go-cel"))
	}
	return dirs
}

func possiblePaths(fileName string) []string {
	if filepath.IsAbs(fileName) {
		return []string{fileName}
	}
	var paths []string
	for _, d := range possibleDirs() {
		paths = append(paths, filepath.Join(d, fileName))
	}
	return paths
}
