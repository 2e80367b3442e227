// Package core provides the business logic around uploaded datasets:
// file parsing, column classification at ingest, the in-memory dataset
// session registry, column configuration edits, anonymized previews, and
// access to the custom tool store. It has no HTTP dependencies and is
// consumed by the web layer and the export serializers.
package core
