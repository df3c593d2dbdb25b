// Package device defines the collaborators a vendor protocol works against.
//
// # Device handles
//
// An Impl is the transport handle of one connected device. It exposes the
// device's logical endpoints (see message.Endpoint), raw writes and reads,
// and a notification stream for data the device pushes on its own. How the
// handle talks to the hardware (BLE GATT, serial, a simulator) is not
// visible to the protocol.
//
// # Specifiers
//
// A Specifier is the matching key derived from a discovered device's
// identity: its advertised BLE name and GATT services, or its serial port.
// The ConfigurationManager resolves a specifier to a ProtocolSelection: the
// protocol name, the user-facing device name and the capability attributes
// advertised to clients in DeviceAdded and DeviceList.
//
// # Configuration database
//
// The built-in database is embedded from default_devices.yaml. Additional
// files in YAML or TOML are merged on top; a protocol defined in a later file
// replaces the earlier definition of the same name. Each protocol has a
// defaults entry and optional configurations keyed by BLE name pattern; a
// configuration's messages are merged over the defaults per message type.
//
// # Discovery
//
// Scanning is done by CommunicationManager implementations outside this
// package. They report discovered devices and the end of a scan as
// ScanEvents.
package device
