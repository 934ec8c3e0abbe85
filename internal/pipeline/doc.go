// Package pipeline runs samples through match → resolve → QC.
//
// One sample is processed synchronously by ProcessSample. ForEach fans a
// batch out over a bounded worker pool that shares a single immutable
// Matcher and hands results back in input order.
package pipeline
