// Package devicemgr tracks connected devices and routes device commands.
//
// Devices arrive from CommunicationManagers (or AddDevice). Each one is
// matched against the device configuration, bound to a protocol instance
// and driven by its own protocol.Runner. Once initialization succeeds the
// device gets the next free index and a DeviceAdded event is emitted;
// DeviceRemoved follows when it disconnects or is removed.
//
// Dispatch never returns a Go error: failures are converted into Error
// messages stamped with the request id, ready to send to the client.
package devicemgr
