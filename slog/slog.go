// Package slog provides log/slog decorators for sitelinks services.
package slog
