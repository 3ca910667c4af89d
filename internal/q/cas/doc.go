// Package cas provides a filesystem-backed, content-addressed cache of small JSON records.
//
// Callers compute a hash from the content a record was derived from, then store and later retrieve the record under (namespace, hash). When the content changes,
// the hash changes and the stale record is simply never looked up again.
//
// Namespaces separate different kinds or versions of records (ex: "reorder-1") and must be filesystem-safe.
//
// Storage is rooted at DB.AbsRoot and uses a sharded directory structure:
//
//	<AbsRoot>/<namespace>/<hash[0:2]>/<hash[2:]>
//
// Records are replaced atomically, so concurrent writers of the same record never leave a torn file behind.
package cas
