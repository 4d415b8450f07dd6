// Package analytics persists per-day distinct session statistics in
// PostgreSQL. It complements the ephemeral presence markers: Redis answers
// "who is online right now", this store answers "how many distinct sessions
// today".
//
// The widget identifier accepted by the heartbeat endpoint is persisted
// here (nullable) for future per-widget breakdowns; it takes no part in
// online counting.
package analytics
