// Package report reads streams of serialized error records and turns them
// back into live values, filtered views and summaries.
//
// The input format is JSON lines: one serialized error object per line, as
// produced by aglaerror.Error's MarshalJSON. Parsing is deliberately
// permissive about severity and timestamp values, matching the storage
// semantics of the core library, but a record must at least carry a string
// errorType and a string message to be accepted.
//
// Records flow from ParseStream into a Sink. Sinks compose: MultiSink fans a
// record out to several consumers and FilteredSink drops records that do not
// match a Filter, so rendering, summarizing and metric collection all hang
// off the same read loop.
package report
