package installer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
)

// resolvePath resolves a resource's declared install_path against root and
// enforces the install sandbox: the resolved real path must be a strict
// descendant of root, and no path component inside the target directory
// may be a symlink.
func resolvePath(root, installPath string) (string, error) {
	joined := filepath.Join(root, installPath)
	cleanRoot := filepath.Clean(root)
	cleanJoined := filepath.Clean(joined)

	if cleanJoined == cleanRoot {
		return "", crmerr.PathSecurity(installPath, "install_path resolves to the install root itself")
	}
	rel, err := filepath.Rel(cleanRoot, cleanJoined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", crmerr.PathSecurity(installPath, "install_path escapes the install root")
	}

	if err := checkNoSymlinks(cleanRoot, cleanJoined); err != nil {
		return "", err
	}
	return cleanJoined, nil
}

// checkNoSymlinks walks each path component between root and target
// (exclusive of the final filename, which does not yet exist before
// write) and rejects any that is a symlink, preventing a malicious
// intermediate directory from redirecting the write outside root.
func checkNoSymlinks(root, target string) error {
	rel, err := filepath.Rel(root, filepath.Dir(target))
	if err != nil {
		return crmerr.PathSecurity(target, "cannot compute relative path")
	}
	if rel == "." {
		return nil
	}
	parts := strings.Split(rel, string(filepath.Separator))
	cur := root
	for _, part := range parts {
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if err != nil {
			// Doesn't exist yet: fine, it will be created as a real dir.
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return crmerr.PathSecurity(target, "path contains a symlinked component")
		}
	}
	return nil
}
