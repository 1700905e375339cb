// Package upload implements the client side of the batched document upload
// workflow.
//
// # Overview
//
// Every file goes through a two-step pipeline:
//  1. Negotiate: ask the information endpoint for upload parameters
//     (destination URL, HTTP method, form fields) and, depending on the
//     deployment, a pre-allocated document descriptor.
//  2. Transfer: send the form fields followed by the file content as a
//     multipart body to the destination and obtain the stored document.
//
// The Orchestrator runs those pipelines concurrently in consecutive slices of
// at most BatchSize files. A slice is awaited in full before the next one is
// dispatched, so no more than BatchSize uploads are ever in flight.
//
// # Descriptor mode
//
// A deployment returns the document descriptor either from the negotiation
// (DescriptorFromNegotiation) or from the transfer (DescriptorFromTransfer).
// The mode is fixed in configuration and checked on every response; a
// response of the other shape fails with ErrProtocolMismatch.
//
// # Failure policies
//
// PolicyStrict stops after the first slice that contains a failure and
// reports the error. PolicyTolerant records the failure in Result.Failures,
// logs it and carries on; Result.Missing tells the caller how many files did
// not make it.
package upload
