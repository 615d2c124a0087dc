package design

import "github.com/physdesign/drtcore/geom"

// Marker is a violation or recheck annotation: a bounding box on a layer,
// a reference to the constraint that produced it, and the participant
// shapes on the victim and aggressor sides, per spec §3.
type Marker struct {
	Box          geom.Box
	LayerNum     int
	ConstraintRef string
	Victims      []ShapeRef
	Aggressors   []ShapeRef
	Fixed        bool
	IsRecheck    bool
}

// ShapeRef names a Shape by (net, shape-id) so a Marker can reference
// geometry across net boundaries without holding a pointer into another
// Net's arena (ownership rule in spec §3: Net exclusively owns its Shapes).
type ShapeRef struct {
	Net   NetID
	Shape ShapeID
}
