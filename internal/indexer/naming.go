package indexer

import "regexp"

// Partition naming rules (chromem collection name conventions follow
// ChromaDB's): 3-512 chars, [a-zA-Z0-9._-] only, alphanumeric at both ends.
const (
	minNameLen = 3
	maxNameLen = 512

	shortNamePrefix = "col_"
	emptyName       = "default_collection"
)

var (
	invalidCharRe  = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	leadingJunkRe  = regexp.MustCompile(`^[^a-zA-Z0-9]+`)
	trailingJunkRe = regexp.MustCompile(`[^a-zA-Z0-9]+$`)
)

// PartitionName derives the semantic-store partition name from a document
// file name. The derivation is pure and idempotent: the same file name
// always maps to the same partition, which is the only handle used to
// reopen the store for querying.
func PartitionName(fileName string) string {
	cleaned := invalidCharRe.ReplaceAllString(fileName, "_")
	cleaned = leadingJunkRe.ReplaceAllString(cleaned, "")
	cleaned = trailingJunkRe.ReplaceAllString(cleaned, "")

	if len(cleaned) > maxNameLen {
		cleaned = cleaned[:maxNameLen]
		cleaned = trailingJunkRe.ReplaceAllString(cleaned, "")
	}

	if len(cleaned) < minNameLen {
		if cleaned == "" {
			return emptyName
		}
		cleaned = shortNamePrefix + cleaned
	}
	return cleaned
}
