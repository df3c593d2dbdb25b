// Package server implements client session semantics on top of a device
// manager.
//
// A Session owns one client conversation: it enforces the
// RequestServerInfo handshake, runs the ping timer, answers system
// messages and routes device commands to the device manager. Replies are
// returned from Handle; events (DeviceAdded, DeviceRemoved,
// ScanningFinished, Log and ping errors) are pushed through the session's
// Sender. Transports such as pkg/connector drive sessions; bp-console
// drives one directly.
package server
