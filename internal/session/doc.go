// Package session keeps logged-in operators and their captured vehicle lists
// in memory. Nothing is persisted; a restart or an idle timeout drops the list,
// which is why the export endpoint exists.
package session
