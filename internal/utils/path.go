package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppName names the per-user config directory.
const AppName = "glosstip"

// PathResolver resolves config and glossary locations for the glosstip binary
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, ".config", AppName)
	}
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetConfigPath returns the full path for a config file.
// It falls back to other writable locations when the config dir is read-only.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	if pr.ensureConfigDir(pr.configDir) {
		return filepath.Join(pr.configDir, filename), nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+AppName),
		filepath.Join(os.TempDir(), AppName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if pr.ensureConfigDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// GetGlossaryPath resolves a glossary file, trying in order:
// 1. the path as given (absolute or relative to the working dir)
// 2. relative to the executable directory
// 3. inside the config directory
// An empty path stays empty, which selects the builtin glossary.
func (pr *PathResolver) GetGlossaryPath(userPath string) (string, error) {
	if userPath == "" {
		return "", nil
	}
	candidates := []string{userPath}
	if !filepath.IsAbs(userPath) {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, userPath),
			filepath.Join(pr.configDir, userPath),
		)
	}
	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Found glossary file: %s", path)
			return path, nil
		}
		log.Debugf("Glossary candidate not found: %s", path)
	}
	return "", os.ErrNotExist
}

// ensureConfigDir creates the directory if it doesn't exist and tests writability
func (pr *PathResolver) ensureConfigDir(dir string) bool {
	if err := EnsureDir(dir); err != nil {
		log.Debugf("Cannot create config directory %s: %v", dir, err)
		return false
	}
	return testWriteAccess(dir)
}
