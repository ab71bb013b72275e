package ingest

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/entrypoints/mcp-pdf-reader/internal/common"
	"github.com/entrypoints/mcp-pdf-reader/internal/entity"
)

// ListPDFFiles walks directory recursively and returns every PDF file
// found, sorted by name. The directory itself must exist and be a
// directory; individual files that cannot be stat'ed are logged and
// skipped rather than failing the listing.
func ListPDFFiles(logger *slog.Logger, directory string) (entity.Listing, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(directory)
	if err != nil {
		return entity.Listing{}, common.NewAppError(common.CodeDirectoryAccess,
			fmt.Sprintf("error accessing directory: %s", directory), err)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		return entity.Listing{}, common.NewAppError(common.CodeDirectoryNotFound,
			fmt.Sprintf("directory does not exist: %s", directory), err)
	case err != nil:
		return entity.Listing{}, common.NewAppError(common.CodeDirectoryAccess,
			fmt.Sprintf("error accessing directory: %s", directory), err)
	case !info.IsDir():
		return entity.Listing{}, common.NewAppError(common.CodeNotADirectory,
			fmt.Sprintf("path is not a directory: %s", directory), nil)
	}

	var files []entity.FileInfo
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("ingest.walk.skipped", "path", path, "error", walkErr)
			return nil // continue walking
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			logger.Warn("ingest.stat.skipped", "path", path, "error", err)
			return nil
		}
		files = append(files, entity.FileInfo{
			Name:      d.Name(),
			Path:      path,
			SizeBytes: fi.Size(),
			Modified:  fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return entity.Listing{}, common.NewAppError(common.CodeDirectoryAccess,
			fmt.Sprintf("error accessing directory: %s", directory), err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return entity.Listing{
		Directory: abs,
		Count:     len(files),
		Files:     files,
	}, nil
}
