// Package render groups the visual outputs of sdkorder.
//
// The [nodelink] subpackage draws the package requirement graph as a
// Graphviz node-link diagram (DOT or SVG). Requirement edges are styled by
// the artifact that carries them so structs and classes dependencies can be
// told apart at a glance.
//
// [nodelink]: github.com/matzehuels/sdkorder/pkg/render/nodelink
package render
