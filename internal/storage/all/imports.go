// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "trino"    (lakeingest/internal/storage/trino)
//   - "postgres" (lakeingest/internal/storage/postgres)
//   - "sqlite"   (lakeingest/internal/storage/sqlite)
//
// Typical usage (in cmd/ingest/main.go or a similar wiring layer):
//
//	import _ "lakeingest/internal/storage/all" // enable all built-in backends
//
// This keeps backend-specific wiring in a single, small package and allows
// the rest of the application to depend only on the storage abstraction. A
// binary that supports only a subset of backends can define an alternative
// wiring package that imports just what it needs.
package all

import (
	_ "lakeingest/internal/storage/postgres"
	_ "lakeingest/internal/storage/sqlite"
	_ "lakeingest/internal/storage/trino"
)
