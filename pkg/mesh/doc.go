// Package mesh defines the decoded mesh data model shared by the node
// database: node numbers, user identities, positions, inbound packets and
// per-node records.
//
// All structs carry CBOR integer-key tags so they can be embedded in the
// durable device snapshot without a separate wire schema.
//
// # Node Numbers
//
// A NodeNum identifies a participant on the mesh. NodeNumBroadcast addresses
// every node and is never assigned. Numbers below NumReserved are kept back
// for future use and are never picked as a provisional local number.
//
// # Optional Fields
//
// Optional sub-records use explicit presence flags (HasUser, HasPosition)
// rather than pointers, so a NodeInfo is a plain value that can live in a
// fixed-capacity table. Inbound packets use pointers for the payload and its
// variants, matching how the decoding layer delivers them.
package mesh
