// Package protocol translates device commands into raw device operations.
//
// A Protocol is a per-vendor strategy bound to exactly one connected device.
// It is created by a Factory from the Registry, initialized once, and then
// asked to handle one DeviceCommand at a time:
//
//	Uninitialized -> Initializing -> Ready
//	                              -> Failed
//
// Commands other than StopDeviceCmd are refused until the protocol is
// Ready. StopDeviceCmd is always accepted and always answered with Ok.
//
// # Serialization
//
// A Runner owns one device and its protocol and executes commands through a
// single-consumer loop, so multi-write sequences never interleave. Stop
// commands bypass the queue: they cancel the in-flight command, fail every
// command queued before them, and run next.
//
// # Errors
//
// Handlers return *message.ProtocolError values of the Device class for
// unsupported commands, capability violations and transport failures. The
// caller converts them into Error messages stamped with the request id.
package protocol
