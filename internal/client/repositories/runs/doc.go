// Package runs persists the local journal of upload runs.
//
// The journal is write-once history for the `history` command. Nothing reads
// it back to decide what to upload, so uploading the same files again always
// creates new documents.
package runs
