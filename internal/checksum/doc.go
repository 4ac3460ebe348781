// Package checksum provides document hashing with XML-aware normalization.
//
// Two checksums are available:
//
//   - Raw checksum: hash of the exact content
//   - Normalized checksum: hash after removing comments, processing
//     instructions and whitespace-only text between tags. Whitespace inside
//     field values is significant.
//
// The metadata service compares the normalized checksum of a rendered document
// against the stored one and skips the upsert when they match.
//
//	calc := checksum.New()
//	if calc.Equal(stored, rendered) {
//		// nothing to write
//	}
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
