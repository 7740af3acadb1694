// Package source loads the batch of test cases an ingestion run processes.
//
// A Source returns the whole ordered batch or fails with ErrSourceUnavailable;
// there are no partial results. FileSource reads JSON (an array of records) or
// YAML (a sequence of records), choosing the format by file extension.
package source
