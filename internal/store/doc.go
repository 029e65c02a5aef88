// Package store holds the normalized snapshot list shared by every
// downstream stage. The list is replaced wholesale on each ingestion
// cycle; readers always observe either the previous or the new list,
// never a partial update.
package store
