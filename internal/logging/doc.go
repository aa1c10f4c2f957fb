// Package logging provides structured logging for fieldkit components.
//
// This package wraps a zap logger. The combobox engine, the action
// controller and the transport client all accept an optional *zap.Logger;
// when they are given nil they fall back to a named child of the global
// logger returned by GetLogger.
//
// # Log Levels
//
//   - Debug: search passes, discarded stale results, overlay lifecycle
//   - Info: failed submits and actions
//   - Warn: recoverable host mistakes (duplicate select values)
//   - Error: configuration that could not be loaded
//
// # Configuration
//
// Logging is silent unless a level is supplied, either directly or through
// FIELDKIT_LOG_LEVEL. Terminal programs should also set an output file so
// log lines do not tear the rendered UI:
//
//	if err := logging.InitializeWithOptions(logging.Options{
//	    Level:      "debug",
//	    OutputPath: "/tmp/fieldkit.log",
//	}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
