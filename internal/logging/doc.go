// Package logging builds the zap logger shared by every component.
package logging
