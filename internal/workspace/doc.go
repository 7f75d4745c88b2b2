// Package workspace locates the Rust workspace that clipper operates on
// and loads its optional configuration.
//
// The workspace root defaults to the parent of the directory containing
// the clipper executable, mirroring how repository-local tooling is laid
// out (binary in <repo>/bin or <repo>/tools, crates one level up). An
// explicit --root flag overrides the derivation.
//
// Configuration lives in an optional clipper.jsonc file at the workspace
// root. The file uses JSONC (JSON with Comments) and is parsed with
// github.com/tidwall/jsonc; when it is absent, the built-in defaults
// apply unchanged.
package workspace
