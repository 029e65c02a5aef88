// Package domain holds the value types shared across the ingestion,
// aggregation and forecasting pipeline. All types are plain serializable
// data with no behavior beyond small pure helpers.
package domain
