package update

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// DefaultKeepArtifacts is the default number of staged artifacts to retain
// when pruning.
const DefaultKeepArtifacts = 2

// PruneStaging removes old artifacts from the staging directory, keeping
// only the keep most recently modified files. It returns the names of the
// removed files. A missing staging directory is not an error.
func (d *Downloader) PruneStaging(keep int) ([]string, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep count must be non-negative")
	}

	entries, err := afero.ReadDir(d.fs, d.stagingDir)
	if err != nil {
		if exists, _ := afero.DirExists(d.fs, d.stagingDir); !exists {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read staging directory: %w", err)
	}

	files := entries[:0]
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry)
		}
	}

	// Newest first: keep the head, delete the tail.
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime().After(files[j].ModTime())
	})

	if len(files) <= keep {
		return nil, nil
	}

	var deleted []string
	for _, entry := range files[keep:] {
		path := filepath.Join(d.stagingDir, entry.Name())
		if err := d.fs.Remove(path); err != nil {
			return deleted, fmt.Errorf("failed to delete staged artifact %s: %w", entry.Name(), err)
		}
		deleted = append(deleted, entry.Name())
	}

	return deleted, nil
}
