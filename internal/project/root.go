package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultManifest is the manifest file that marks a project root.
const DefaultManifest = "package.json"

// ErrProjectRootNotFound is returned when no manifest is found between the
// start directory and the filesystem root.
var ErrProjectRootNotFound = errors.New("project root not found")

// FindRoot walks upward from start and returns the first directory that
// contains one of the manifests. DefaultManifest is used when none is given.
func FindRoot(start string, manifests ...string) (string, error) {
	if len(manifests) == 0 {
		manifests = []string{DefaultManifest}
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		for _, name := range manifests {
			info, err := os.Stat(filepath.Join(dir, name))
			if err == nil && !info.IsDir() {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %v in %s or any parent directory", ErrProjectRootNotFound, manifests, start)
		}
		dir = parent
	}
}

// RootCheck verifies the environment before a report is produced.
// A non-nil error aborts the report.
type RootCheck func() error

// RequireRoot returns a RootCheck that requires a project root above the
// current working directory.
func RequireRoot(manifests ...string) RootCheck {
	return func() error {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		return RequireRootFrom(wd, manifests...)()
	}
}

// RequireRootFrom returns a RootCheck that requires a project root above dir.
func RequireRootFrom(dir string, manifests ...string) RootCheck {
	return func() error {
		_, err := FindRoot(dir, manifests...)
		return err
	}
}

// NoCheck is a RootCheck that always succeeds.
func NoCheck() error {
	return nil
}
