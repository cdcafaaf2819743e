// Package reanalyze provides functionality for re-running analysis over
// stored documents, for example after upgrading the analysis model.
//
// This package supports progress tracking and retry logic with
// exponential backoff. Documents persisted without their original
// content (light copies written under capacity pressure) are skipped.
package reanalyze
