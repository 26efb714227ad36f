// Package file stores the baseline snapshot as a JSON file on local disk.
//
// The version token is the SHA-256 of the file content. Writes hold an
// exclusive lock file next to the snapshot, re-check the token, and replace
// the snapshot with an atomic rename.
package file
