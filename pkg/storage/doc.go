// Package storage provides the named-blob storage the node database persists
// its snapshot to.
//
// A blob is addressed by a slash-separated name such as "/db.proto". The API
// mirrors what a small flash filesystem offers: open for read, open for
// write, remove and rename. Rename never overwrites an existing blob; callers
// that want to replace a blob remove the target first.
//
// Three backends are provided:
//   - FileStore keeps each blob as a file under a root directory.
//   - MemoryStore keeps blobs in memory, for tests and simulations.
//   - SQLiteStore keeps blobs as rows in a SQLite database.
package storage
