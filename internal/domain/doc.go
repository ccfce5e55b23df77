// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (persisted records), contracts (interfaces) and the
// error kinds every layer reports.
package domain
