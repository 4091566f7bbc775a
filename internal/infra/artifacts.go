package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// Extensions of the predownloaded update artifacts.
const (
	MSIXExtension     = "msix"
	DMGExtension      = "dmg"
	ChecksumExtension = "sha256"
)

// UpdateDir returns the directory the downloader deposits updates into.
func UpdateDir(profileDir string) string {
	return filepath.Join(profileDir, "temp", "update")
}

// FindFilesByExtension lists regular files in dir whose extension equals ext
// (without the dot, case-sensitive), sorted lexicographically.
func FindFilesByExtension(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == "."+ext {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(found)
	return found, nil
}

// LocateUpdateArtifacts picks the payload and checksum files in updateDir.
// With several candidates the lexicographically last one wins, which only
// approximates "newest" when file names sort like versions.
func LocateUpdateArtifacts(updateDir, payloadExt string) (domain.UpdateArtifactPair, error) {
	payload, err := lastFileWithExtension(updateDir, payloadExt)
	if err != nil {
		return domain.UpdateArtifactPair{}, err
	}

	checksum, err := lastFileWithExtension(updateDir, ChecksumExtension)
	if err != nil {
		return domain.UpdateArtifactPair{}, err
	}

	return domain.UpdateArtifactPair{Payload: payload, Checksum: checksum}, nil
}

func lastFileWithExtension(dir, ext string) (string, error) {
	files, err := FindFilesByExtension(dir, ext)
	if err != nil {
		return "", domain.NewUpdateError(domain.ErrUpdateNotFound, fmt.Errorf("failed to read update directory: %w", err))
	}
	if len(files) == 0 {
		return "", domain.NewUpdateError(domain.ErrUpdateNotFound, fmt.Errorf("no .%s file in %s", ext, dir))
	}
	return files[len(files)-1], nil
}
