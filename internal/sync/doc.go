// Package sync mirrors the remote catalog into the local database.
//
// The Orchestrator runs four stages, each triggered on its own:
//
//   - cities: fetch the city list once and reconcile every record
//   - brands: fetch the brand list once and reconcile every record
//   - models: for every stored brand, fetch and reconcile its models
//   - variants: one unit of work per stored model; each unit fetches the
//     model's variants plus one overview per variant and reconciles them
//     together with their key features
//
// Models assume brands are stored and variants assume models are stored.
// The orchestrator does not check this; an empty parent table simply yields
// an empty fan-out.
//
// # Units of work
//
// The variants stage enqueues its units in the queue subpackage and drains
// them with a bounded pool of workers. A failed unit is recorded on the queue
// and never aborts its siblings; the stage result reports how many units
// failed. Running the stage again re-creates every unit, and because all
// writes are natural-key upserts a re-run is never destructive.
//
// # Errors
//
// Transport failures propagate. A stage that cannot proceed at all (the
// remote list cannot be fetched, the parents cannot be listed, the queue
// cannot be written) returns an *Error naming the stage and, where known,
// the target it was working on.
//
// The coordinator subpackage triggers stages on configured intervals.
package sync
