// Package github stores the baseline snapshot as a file in a GitHub
// repository through the Contents API.
//
// The version token is the file's blob SHA. GitHub rejects a contents update
// whose SHA is stale, which gives compare-and-swap semantics without a lock.
// Every write is a commit on the configured branch, so the repository history
// doubles as an audit log of baselines.
package github
