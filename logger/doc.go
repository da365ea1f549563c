// Package logger is the public front end of sawmill. Most users only
// need to import this package and the sink package.
//
// A Logger pairs a name and a level threshold with a dispatch engine.
// Message text is rendered on the calling goroutine, so the engine
// only ever carries final bytes; the level check happens before any
// allocation, and filtered-out messages cost a single atomic load.
//
// Logging methods return an error: ErrInactive once the engine has
// been closed, or a deferred dispatch.WorkerError reporting a
// formatter or sink failure from an earlier record. Programs that do
// not care can ignore the return value.
//
//	engine := dispatch.New(dispatch.Config{Sinks: []sink.Sink{fileSink}})
//	log := logger.New("server", engine, logger.WithLevel(logger.DebugLevel))
//	log.Infof("listening on %s", addr)
//
// The package initializes a default logger (stdout, InfoLevel, text
// format) in init(); the package-level functions Info, Errorf, etc.
// delegate to it. Named loggers can be shared across packages through
// Register and Get.
package logger
