// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package logging provides the process-wide zerolog logger for hybridrec.

The global logger is configured once from the application config:

	logging.Init(logging.Config{
	    Level:  cfg.Logging.Level,
	    Format: cfg.Logging.Format,
	    Caller: cfg.Logging.Caller,
	})

Components do not log through the globals. They receive a zerolog.Logger at
construction and derive a child with a component field:

	engineLogger := logging.WithComponent("recommend")

# Request IDs

The HTTP layer stores a request ID in the request context. Ctx returns a
logger carrying it:

	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
	logging.Ctx(ctx).Info().Int("user_id", id).Msg("recommendations served")

# slog

SlogHandler adapts zerolog to slog.Handler so the supervisor's sutureslog
event hook writes to the same stream.

Always terminate log chains with .Msg() or .Send(); an unterminated event
is never written.
*/
package logging
