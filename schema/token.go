package schema

import (
	"path/filepath"
	"regexp"
	"strings"
)

// versionPattern matches release identifiers such as 2.9.42, 3.1-rc1 or
// 3.3.0.1.
var versionPattern = regexp.MustCompile(`[0-9]+\.[0-9-]+[\.\-][0-9a-z]+(\.[0-9]+)?`)

// VersionToken extracts the release identifier from a schema file name. A
// name containing "latest" yields "latest".
func VersionToken(path string) (string, error) {
	base := filepath.Base(path)
	if strings.Contains(base, "latest") {
		return "latest", nil
	}
	tok := versionPattern.FindString(base)
	if tok == "" {
		return "", &VersionTokenMissingError{Path: path}
	}
	return tok, nil
}
