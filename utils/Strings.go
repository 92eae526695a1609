package utils

import "strings"

// SanitizeForFilename makes a table or column name safe to use in an artifact name.
func SanitizeForFilename(name string) string {
	s := name
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ToLower(s)
	return s
}

// ArtifactPrefix builds the prefix used for report files of one scan.
func ArtifactPrefix(table, column string) string {
	return SanitizeForFilename(table) + "_" + SanitizeForFilename(column)
}
