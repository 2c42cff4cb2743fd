// Package log provides leveled logging for homedash.
//
// The package keeps a small printf-style API on top of a zap core with
// colored console output. It supports four levels: DEBUG, INFO, WARN and ERROR.
//
// # Log Levels
//
//   - DEBUG: Detailed diagnostic information (only shown in verbose mode)
//   - INFO: General informational messages
//   - WARN: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures, always written to stderr
//
// # Example Usage
//
//	log.Infof("Starting server on %s", addr)
//	log.Warnf("Data file not found at %s, starting empty", path)
//
// Enabling verbose mode for debug output:
//
//	log.SetVerbose(true)
//	log.Debugf("Extracted %d candidates", n)
//
// Components that prefer structured fields can use the zap logger directly:
//
//	log.Logger().Info("import finished", zap.Int("accepted", n))
//
// All functions are safe for concurrent use.
package log
