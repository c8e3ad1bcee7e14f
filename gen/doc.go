// Package gen turns option declaration documents into Go source built on
// package optarg.
//
// A document names the package and its options:
//
//	package: widget
//	vars:
//	  base: 128
//	options:
//	  ItemCount:
//	    type: int
//	    default: "{{ vars.base * 2 }}"
//	    apply_to: Widget
//	  Label: string
//	flags:
//	  Mode: [Fast, Safe]
//
// Values may reference other keys with ${path}, read files or environment
// variables with @file://name and @env://NAME, and compute with {{ expr }}.
// Documents can be YAML, TOML, JSON or JSON with comments.
//
// For each option Render emits the type, its Default method when a default is
// declared, a With<Name> constructor, and an Apply method calling
// Set<Name> on the apply_to type. Flags become defined scalar types with one
// constant per value.
package gen
