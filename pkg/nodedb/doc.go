// Package nodedb keeps the table of known mesh nodes and folds inbound
// packets into it.
//
// The table lives inside a persistence.DeviceState so that it is written out
// with the rest of the device state. Records are appended in discovery order
// and never removed or reordered; the table holds at most mesh.MaxNumNodes
// records and inserting beyond that is a programming error that panics.
//
// A Reconciler applies each packet to the sender's record and notifies
// registered handlers. Only a change to a node's user identity triggers a
// snapshot save, which bounds flash writes on constrained devices.
//
// Nothing in this package is safe for concurrent use. All calls on a
// Registry, Reconciler and NodeDB must be serialized by the caller.
//
// Basic usage:
//
//	db, err := nodedb.Open(nodedb.Config{Storage: store, MAC: identity.FixedMAC(mac)})
//	if err != nil {
//	    return err
//	}
//	db.Reconciler().OnEvent(func(e nodedb.Event) {
//	    fmt.Println(e.Type, e.Node.DisplayName())
//	})
//	db.HandlePacket(pkt)
package nodedb
