package subnames

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// subtitleExtensions are the auxiliary-output extensions eligible for
// renaming; media containers are never touched.
var subtitleExtensions = map[string]struct{}{
	".vtt":  {},
	".srt":  {},
	".ass":  {},
	".ttml": {},
}

// IsSubtitle reports whether path carries a subtitle extension.
func IsSubtitle(path string) bool {
	_, ok := subtitleExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Canonical computes the canonical path for a subtitle file named
// <opaque-id>-<language-tag>.<ext> by uppercasing the language tag only.
// The id may itself contain separators, so the split anchors on the last
// one. It returns the input unchanged, and false, when the name does not
// match that shape or is already canonical.
func Canonical(path string) (string, bool) {
	if !IsSubtitle(path) {
		return path, false
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	idx := strings.LastIndex(stem, "-")
	if idx <= 0 || idx == len(stem)-1 {
		return path, false
	}
	id, lang := stem[:idx], stem[idx+1:]
	canonical := filepath.Join(filepath.Dir(path), id+"-"+strings.ToUpper(lang)+ext)
	if canonical == path {
		return path, false
	}
	return canonical, true
}

// Normalize renames a completed subtitle file to its canonical form.
// It is idempotent: a second invocation after a successful rename is a
// guaranteed no-op. On a case-insensitive filesystem, where the only
// difference between the two names is letter case, the rename goes
// through an intermediate temporary name so it cannot be swallowed as a
// same-file no-op.
//
// The returned error is advisory; a missed rename degrades presentation
// only, so callers log it and move on.
func Normalize(path string) (string, error) {
	canonical, changed := Canonical(path)
	if !changed {
		return path, nil
	}
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Already renamed by an earlier notification.
			return canonical, nil
		}
		return path, err
	}
	if strings.EqualFold(filepath.Base(path), filepath.Base(canonical)) {
		intermediate := canonical + ".casefix.tmp"
		if err := os.Rename(path, intermediate); err != nil {
			return path, err
		}
		if err := os.Rename(intermediate, canonical); err != nil {
			return path, err
		}
		return canonical, nil
	}
	if err := os.Rename(path, canonical); err != nil {
		return path, err
	}
	return canonical, nil
}
