// Package presence tracks which browser sessions are currently online.
//
// Each heartbeat writes a TTL-bearing marker key to Redis
// (online:<namespace>:<sessionID>); a session counts as online until the
// marker expires. Counting scans the marker namespace with a cursor and
// caches the result in process memory for a short window to absorb bursts
// of concurrent polling.
//
// The count is an approximation by design: TTL expiry lags tab close by up
// to the TTL, and a SCAN is not an atomic keyspace snapshot. The feature is
// best-effort; every operation degrades to a safe default (no-op heartbeat,
// zero count) when the store is unreachable, and failures surface only in
// logs and metrics, never to the HTTP caller.
package presence
