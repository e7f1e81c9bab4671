package app

import (
	"os"
	"path/filepath"
)

// ProjectDirName is the per-project directory holding the database and config.
const ProjectDirName = ".ruhints"

// Paths holds all resolved filesystem paths for the .ruhints/ project directory.
type Paths struct {
	Root   string // .ruhints/
	DB     string // .ruhints/ruhints.db
	Config string // .ruhints/config.yaml

	PortFile string // .ruhints/http.port
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ProjectDirName)
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "ruhints.db"),
		Config: filepath.Join(root, "config.yaml"),

		PortFile: filepath.Join(root, "http.port"),
	}
}

// EnsureDirs creates the .ruhints/ directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0o755)
}

// Exists reports whether the project directory has been created.
func (p *Paths) Exists() bool {
	info, err := os.Stat(p.Root)
	return err == nil && info.IsDir()
}
