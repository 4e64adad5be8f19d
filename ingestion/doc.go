// Package ingestion provides bulk loading of items into a store.
//
// The Loader type manages the loading workflow, including:
//   - Validating items and deriving content IDs concurrently on a worker pool
//   - Saving prepared items sequentially so store order matches input order
//   - Retrying failed saves with exponential backoff
//
// A validation failure aborts the whole batch before anything is saved.
package ingestion
