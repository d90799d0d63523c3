package output

// SchemaVersion is the current version of the NDJSON output schema.
// Increment this when making breaking changes to the output format.
const SchemaVersion = 1
