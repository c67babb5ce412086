// Package contenthash fingerprints raw study content for deduplication.
//
// The hash is a dedup key, not an integrity check: it must be stable across
// process lifetimes and spread unrelated inputs across a large key space,
// but needs no cryptographic strength. Input bytes are hashed as-is; no
// whitespace or case normalization is applied, so texts that differ only in
// formatting produce distinct keys.
package contenthash

import (
	"hash/fnv"
	"strconv"
)

// Hash returns the FNV-1a 64-bit fingerprint of content, rendered as
// "hash_" plus the base-36 digest.
func Hash(content string) string {
	h := fnv.New64a()
	// fnv's Write never returns an error.
	_, _ = h.Write([]byte(content))
	return "hash_" + strconv.FormatUint(h.Sum64(), 36)
}
