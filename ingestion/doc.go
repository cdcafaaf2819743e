// Package ingestion provides the batch upload and analysis pipeline.
//
// The Pipeline type collects validated files as pending items, then on
// demand dispatches every pending item concurrently to the analysis
// service, persisting the resulting documents and recent-analysis
// entries. Item failures are captured per item and never abort the
// batch. Settled batches are published on an event channel.
package ingestion
