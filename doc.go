// Package drtcore is the root of an IC physical-design back end: the
// connectivity repair engine (package repair) that heals a post-routing
// design database back into a tree over each net's pins, and the
// geometric design-rule-check engine (package drc) that flags spacing,
// end-of-line, corner, shape and cut-spacing violations against a
// technology file.
//
// Both engines share one data model:
//
//	geom/        — integer-grid geometry primitives
//	tech/        — layer/via/rule-table technology model
//	design/      — nets, shapes, terminals, markers
//	regionindex/ — per-layer spatial index backing both engines' queries
//	markers/     — deduplicated violation/recheck sink
//	guide/       — per-net connectivity guide-file parser
//	rcfg/        — router configuration and structured logging
//	driver/      — the parallel batch driver (C8) fanning both engines
//	             out across a block's nets
//
// This file exists only to carry the module-level doc comment; there is
// no package-level code at the repository root.
package drtcore
