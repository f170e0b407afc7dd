// Package persistence holds the durable device state and saves it to, and
// restores it from, named-blob storage.
//
// DeviceState is the single aggregate that survives reboot: local node info,
// owner identity, radio configuration, the node table and the most recent
// text message. It is serialized as CBOR with integer keys and a schema
// version. Snapshots older than VersionMinimum are ignored on load.
//
// Saves write a temporary blob, remove the primary blob and rename the
// temporary into place. A crash between the remove and the rename leaves no
// primary blob; the next successful save recreates it.
package persistence
