// Package cfgx decodes loosely typed input (maps produced by koanf parsers, raw scalars
// from declaration files) into typed Go values in three stages: defaults, preprocess,
// decode.
//
// Coerce narrows a single scalar into a concrete type with the same hook set, which is
// how declared option defaults become typed values before rendering.
//
// Every stage failure is a *StageError matching one of ErrDefaults, ErrPreprocess or
// ErrDecode.
package cfgx
