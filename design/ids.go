// Package design models the design database of spec §3: Block, Net,
// Instance, Term, Shape (path-segment/via/patch-wire), Pin and Marker, with
// the ownership hierarchy (design note §9) realized as stable-index handles
// into dense arenas rather than shared pointers, so regionindex can hold
// cheap, non-owning back-references.
package design

// ShapeID indexes a Shape within its owning Net's arena.
type ShapeID int

// NodeID indexes a node (route-object endpoint or pin) within the combined
// per-net node list the repair engine builds in Step C.
type NodeID int

// NetID indexes a Net within its owning Block's arena.
type NetID int

// TermID/InstTermID index Terms and InstanceTerms within their owning Block.
type TermID int
type InstTermID int

// MarkerID indexes a Marker within its owning Block's collection.
type MarkerID int

const InvalidID = -1
