// Package ws streams the department snapshot to WebSocket clients.
//
// Each connected client receives the full snapshot immediately on connect,
// again whenever a refresh lands a new snapshot, and on a periodic ticker so
// idle clients still see the loading/error status advance. Slow clients that
// cannot drain their send buffer are disconnected rather than allowed to
// stall the broadcast.
package ws
