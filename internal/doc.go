// Package internal contains the core implementation packages for fragmenta.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the fragmenta CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: Configuration management with validation
//   - content: Content file loading with graceful degradation, plus the
//     loud JSON metadata reader
//   - errors: Structured error types encoding the fatal vs degraded policy
//   - logging: Injected structured logging over log/slog
//   - project: Entity family assemblers and the top-level aggregator
//   - scanner: Marker-file entity discovery
//   - types: The aggregated project model
//   - version: Build metadata
//
// # Inter-Package Communication
//
// The pipeline is a straight line: scanner yields validated entity
// directories, content enriches them, project assembles the families into
// one types.Project. Failures travel either as errors.ProjectError return
// values (fatal) or through the injected logging.Logger (degraded); no
// package communicates through shared mutable state.
//
// # Design Principles
//
// The aggregation is a one-shot synchronous read of the project tree: no
// caching between calls, no file watching, no retries. A bounded worker
// pool may construct independent entities concurrently, but results always
// keep filesystem scan order. Every component receives its logger and
// filesystem rather than reaching for globals, so the whole pipeline runs
// against an in-memory filesystem under test.
//
// For detailed documentation, see the individual package documentation.
package internal
