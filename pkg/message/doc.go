// Package message defines the Buttplug protocol message model and its JSON
// wire format.
//
// Every protocol message is a variant of a closed set. Each variant is a
// struct carrying a uint32 correlation id plus its own fields, and every
// variant satisfies the sealed Message interface. Union wraps exactly one
// variant and is the unit that goes on the wire.
//
// # Wire Format
//
// A single message serializes as a JSON object with exactly one key, the
// variant's protocol name:
//
//	{"Ok":{"Id":1}}
//	{"Error":{"Id":0,"ErrorCode":1,"ErrorMessage":"Test Error"}}
//	{"RawReading":{"Id":1,"DeviceIndex":0,"Endpoint":"tx","Data":[0]}}
//
// A transmission envelope is always a JSON array of such objects, even when
// it carries a single message.
//
// # Message IDs
//
// Id 0 marks a spontaneous, server-originated message (events, unsolicited
// errors, log records). Ids >= 1 correlate a response with its request and a
// response always echoes the id of the request it answers. Request-shaped
// constructors default to id 1 ("unassigned, stamped by the sender");
// response and event constructors default to id 0.
//
// # Generated Code
//
// The per-variant accessors (ID, SetID, Kind, AsUnion) and the Kind tables
// live in messages_gen.go, generated by cmd/bp-msggen from messages.yaml.
// Adding a variant means adding it to messages.yaml, writing its struct in
// types.go and regenerating; the exhaustive linter then flags every switch
// over Kind that does not handle it.
package message
