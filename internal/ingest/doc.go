// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

/*
Package ingest is the host-facing edge of the engine.

Game hosts hold a WebSocket connection to /v1/telemetry. Text frames they
send are published unchanged to the event bus; the engine's enforcement
commands travel back down the same connections.

	host ──frames──▶ Client.readPump ──▶ Publisher (eventbus)
	host ◀──enforce── Client.writePump ◀── Hub ◀── detection.Engine

Authentication is an optional HS256 bearer token, sent either as an
Authorization header or as a token query parameter. Tokens must carry an
expiry; IssueToken creates them.
*/
package ingest
