package epanet

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config names the toolkit shared libraries to load. It is read from the
// file named by EPANET_CONFIG, or from epanet.toml in the working directory.
type Config struct {
	// LibraryDir is the root of a per-platform library tree (win/, mac/,
	// glnx/ subdirectories).
	LibraryDir string `toml:"library_dir"`
	// Epanet and MSX are explicit library paths. Relative paths resolve
	// against LibraryDir when it is set.
	Epanet string `toml:"epanet"`
	MSX    string `toml:"msx"`
}

func loadConfig() *Config {
	path := os.Getenv("EPANET_CONFIG")
	if path == "" {
		path = "epanet.toml"
	}
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		if !os.IsNotExist(err) {
			log.WithField("path", path).WithError(err).Debug("config not loaded")
		}
		return nil
	}
	log.WithField("path", path).Debug("config loaded")
	return &c
}

// platformSubdir is the library tree layout the toolkit distributions ship:
// one directory per OS family.
func platformSubdir() string {
	switch runtime.GOOS {
	case "windows":
		return "win"
	case "darwin":
		return "mac"
	default:
		return "glnx"
	}
}

func platformLibName(stem string) string {
	switch runtime.GOOS {
	case "windows":
		return stem + ".dll"
	case "darwin":
		return "lib" + stem + ".dylib"
	default:
		return "lib" + stem + ".so"
	}
}

// locate resolves a toolkit library path: an environment override wins, then
// an explicit config entry, then the per-platform default under the library
// tree. An env or config path is returned as given; default candidates must
// exist on disk.
func locate(envVar, configPath, libraryDir, stem string) (string, error) {
	if p := os.Getenv(envVar); p != "" {
		return p, nil
	}
	if configPath != "" {
		if libraryDir != "" && !filepath.IsAbs(configPath) {
			return filepath.Join(libraryDir, configPath), nil
		}
		return configPath, nil
	}

	name := platformLibName(stem)
	dirs := []string{"libraries"}
	if libraryDir != "" {
		dirs = []string{libraryDir}
	}
	var tried []string
	for _, dir := range dirs {
		p := filepath.Join(dir, platformSubdir(), name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		tried = append(tried, p)
		// Bare library name relies on the system loader's search path.
		p = filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		tried = append(tried, p)
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	tried = append(tried, name)
	return "", fmt.Errorf("epanet: no %s library found (set %s or a config file; searched %v)",
		stem, envVar, tried)
}

// Locate finds the EPANET toolkit shared library. Resolution order:
// the EPANET_LIB environment variable, the config file, then the
// per-platform default name under the library tree.
func Locate() (string, error) {
	c := loadConfig()
	var configPath, dir string
	if c != nil {
		configPath, dir = c.Epanet, c.LibraryDir
	}
	return locate("EPANET_LIB", configPath, dir, "epanet2")
}

// LocateMSX finds the EPANET-MSX shared library. Resolution order matches
// Locate, with the EPANET_MSX_LIB environment variable.
func LocateMSX() (string, error) {
	c := loadConfig()
	var configPath, dir string
	if c != nil {
		configPath, dir = c.MSX, c.LibraryDir
	}
	return locate("EPANET_MSX_LIB", configPath, dir, "epanetmsx")
}
