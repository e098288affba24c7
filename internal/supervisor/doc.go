// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package supervisor provides process supervision for hybridrec using suture v4.

The supervisor tree isolates the engine's background work from request
serving:

	RootSupervisor ("hybridrec")
	├── EngineSupervisor ("engine-layer")
	│   └── SnapshotReloadService (when a data file is configured)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing reload loop is restarted by the engine layer without touching the
HTTP server, which keeps serving the last good snapshot.

Supervisor events (service start, failure, backoff) are written through
sutureslog to the slog logger given to NewSupervisorTree. In production that
logger is logging.NewSlogLogger, so events land in the zerolog stream.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.Logger()), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddEngineService(reloadService)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err = tree.Serve(ctx)
*/
package supervisor
