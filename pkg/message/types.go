package message

// ---------------------------------------------------------------------------
// Status and handshake
// ---------------------------------------------------------------------------

// Ok acknowledges a request that has no other reply payload.
type Ok struct {
	MessageID uint32 `json:"Id"`
}

// NewOk creates an Ok echoing the given request id.
func NewOk(id uint32) *Ok {
	return &Ok{MessageID: id}
}

// Error reports a failed request, or a spontaneous server-side failure
// when its id is 0.
type Error struct {
	MessageID    uint32    `json:"Id"`
	ErrorCode    ErrorCode `json:"ErrorCode"`
	ErrorMessage string    `json:"ErrorMessage"`
}

// NewError creates an Error with id 0. Stamp it with SetID before sending
// it as a reply.
func NewError(code ErrorCode, msg string) *Error {
	return &Error{ErrorCode: code, ErrorMessage: msg}
}

// Ping keeps the client session alive.
type Ping struct {
	MessageID uint32 `json:"Id"`
}

// NewPing creates a Ping with the default request id.
func NewPing() *Ping {
	return &Ping{MessageID: DefaultRequestID}
}

// Test is echoed back to the client unchanged.
type Test struct {
	MessageID  uint32 `json:"Id"`
	TestString string `json:"TestString"`
}

// NewTest creates a Test with the default request id.
func NewTest(s string) *Test {
	return &Test{MessageID: DefaultRequestID, TestString: s}
}

// RequestLog asks the server to forward log records at or above a level.
type RequestLog struct {
	MessageID uint32   `json:"Id"`
	LogLevel  LogLevel `json:"LogLevel"`
}

// NewRequestLog creates a RequestLog with the default request id.
func NewRequestLog(level LogLevel) *RequestLog {
	return &RequestLog{MessageID: DefaultRequestID, LogLevel: level}
}

// Log carries one server log record.
type Log struct {
	MessageID  uint32   `json:"Id"`
	LogLevel   LogLevel `json:"LogLevel"`
	LogMessage string   `json:"LogMessage"`
}

// NewLog creates a Log event.
func NewLog(level LogLevel, msg string) *Log {
	return &Log{LogLevel: level, LogMessage: msg}
}

// RequestServerInfo opens a client session.
type RequestServerInfo struct {
	MessageID      uint32 `json:"Id"`
	ClientName     string `json:"ClientName"`
	MessageVersion uint32 `json:"MessageVersion"`
}

// NewRequestServerInfo creates a RequestServerInfo with the default request id.
func NewRequestServerInfo(clientName string, messageVersion uint32) *RequestServerInfo {
	return &RequestServerInfo{
		MessageID:      DefaultRequestID,
		ClientName:     clientName,
		MessageVersion: messageVersion,
	}
}

// ServerInfo answers RequestServerInfo.
type ServerInfo struct {
	MessageID      uint32 `json:"Id"`
	MajorVersion   uint32 `json:"MajorVersion"`
	MinorVersion   uint32 `json:"MinorVersion"`
	BuildVersion   uint32 `json:"BuildVersion"`
	MessageVersion uint32 `json:"MessageVersion"`
	MaxPingTime    uint32 `json:"MaxPingTime"`
	ServerName     string `json:"ServerName"`
}

// NewServerInfo creates a ServerInfo template with id 0.
func NewServerInfo(serverName string, messageVersion, maxPingTime uint32) *ServerInfo {
	return &ServerInfo{
		MessageVersion: messageVersion,
		MaxPingTime:    maxPingTime,
		ServerName:     serverName,
	}
}

// ---------------------------------------------------------------------------
// Device enumeration
// ---------------------------------------------------------------------------

// DeviceList answers RequestDeviceList.
type DeviceList struct {
	MessageID uint32              `json:"Id"`
	Devices   []DeviceMessageInfo `json:"Devices"`
}

// NewDeviceList creates a DeviceList with id 0.
func NewDeviceList(devices []DeviceMessageInfo) *DeviceList {
	return &DeviceList{Devices: devices}
}

// DeviceAdded announces a newly connected device.
type DeviceAdded struct {
	MessageID      uint32         `json:"Id"`
	DeviceIndex    uint32         `json:"DeviceIndex"`
	DeviceName     string         `json:"DeviceName"`
	DeviceMessages DeviceMessages `json:"DeviceMessages"`
}

// NewDeviceAdded creates a DeviceAdded event.
func NewDeviceAdded(index uint32, name string, messages DeviceMessages) *DeviceAdded {
	return &DeviceAdded{DeviceIndex: index, DeviceName: name, DeviceMessages: messages}
}

// DeviceRemoved announces a device disconnect.
type DeviceRemoved struct {
	MessageID   uint32 `json:"Id"`
	DeviceIndex uint32 `json:"DeviceIndex"`
}

// NewDeviceRemoved creates a DeviceRemoved event.
func NewDeviceRemoved(index uint32) *DeviceRemoved {
	return &DeviceRemoved{DeviceIndex: index}
}

// StartScanning asks the server to start device discovery.
type StartScanning struct {
	MessageID uint32 `json:"Id"`
}

// NewStartScanning creates a StartScanning with the default request id.
func NewStartScanning() *StartScanning {
	return &StartScanning{MessageID: DefaultRequestID}
}

// StopScanning asks the server to stop device discovery.
type StopScanning struct {
	MessageID uint32 `json:"Id"`
}

// NewStopScanning creates a StopScanning with the default request id.
func NewStopScanning() *StopScanning {
	return &StopScanning{MessageID: DefaultRequestID}
}

// ScanningFinished announces that every discovery source has stopped.
type ScanningFinished struct {
	MessageID uint32 `json:"Id"`
}

// NewScanningFinished creates a ScanningFinished event.
func NewScanningFinished() *ScanningFinished {
	return &ScanningFinished{}
}

// RequestDeviceList asks for the currently connected devices.
type RequestDeviceList struct {
	MessageID uint32 `json:"Id"`
}

// NewRequestDeviceList creates a RequestDeviceList with the default request id.
func NewRequestDeviceList() *RequestDeviceList {
	return &RequestDeviceList{MessageID: DefaultRequestID}
}

// ---------------------------------------------------------------------------
// Generic device commands
// ---------------------------------------------------------------------------

// VibrateSubcommand sets one vibration motor to a normalized speed.
type VibrateSubcommand struct {
	Index uint32  `json:"Index"`
	Speed float64 `json:"Speed"`
}

// VibrateCmd sets per-motor vibration speeds in the range [0, 1].
type VibrateCmd struct {
	MessageID   uint32              `json:"Id"`
	DeviceIndex uint32              `json:"DeviceIndex"`
	Speeds      []VibrateSubcommand `json:"Speeds"`
}

// NewVibrateCmd creates a VibrateCmd with the default request id.
func NewVibrateCmd(deviceIndex uint32, speeds []VibrateSubcommand) *VibrateCmd {
	return &VibrateCmd{MessageID: DefaultRequestID, DeviceIndex: deviceIndex, Speeds: speeds}
}

// VectorSubcommand moves one linear actuator to a normalized position
// over a duration in milliseconds.
type VectorSubcommand struct {
	Index    uint32  `json:"Index"`
	Duration uint32  `json:"Duration"`
	Position float64 `json:"Position"`
}

// LinearCmd moves linear actuators.
type LinearCmd struct {
	MessageID   uint32             `json:"Id"`
	DeviceIndex uint32             `json:"DeviceIndex"`
	Vectors     []VectorSubcommand `json:"Vectors"`
}

// NewLinearCmd creates a LinearCmd with the default request id.
func NewLinearCmd(deviceIndex uint32, vectors []VectorSubcommand) *LinearCmd {
	return &LinearCmd{MessageID: DefaultRequestID, DeviceIndex: deviceIndex, Vectors: vectors}
}

// RotationSubcommand sets one rotator's normalized speed and direction.
type RotationSubcommand struct {
	Index     uint32  `json:"Index"`
	Speed     float64 `json:"Speed"`
	Clockwise bool    `json:"Clockwise"`
}

// RotateCmd sets rotation speeds and directions.
type RotateCmd struct {
	MessageID   uint32               `json:"Id"`
	DeviceIndex uint32               `json:"DeviceIndex"`
	Rotations   []RotationSubcommand `json:"Rotations"`
}

// NewRotateCmd creates a RotateCmd with the default request id.
func NewRotateCmd(deviceIndex uint32, rotations []RotationSubcommand) *RotateCmd {
	return &RotateCmd{MessageID: DefaultRequestID, DeviceIndex: deviceIndex, Rotations: rotations}
}

// SingleMotorVibrateCmd sets every vibration motor to the same speed.
type SingleMotorVibrateCmd struct {
	MessageID   uint32  `json:"Id"`
	DeviceIndex uint32  `json:"DeviceIndex"`
	Speed       float64 `json:"Speed"`
}

// NewSingleMotorVibrateCmd creates a SingleMotorVibrateCmd with the default request id.
func NewSingleMotorVibrateCmd(deviceIndex uint32, speed float64) *SingleMotorVibrateCmd {
	return &SingleMotorVibrateCmd{MessageID: DefaultRequestID, DeviceIndex: deviceIndex, Speed: speed}
}

// StopDeviceCmd stops every actuator on one device.
type StopDeviceCmd struct {
	MessageID   uint32 `json:"Id"`
	DeviceIndex uint32 `json:"DeviceIndex"`
}

// NewStopDeviceCmd creates a StopDeviceCmd with the default request id.
func NewStopDeviceCmd(deviceIndex uint32) *StopDeviceCmd {
	return &StopDeviceCmd{MessageID: DefaultRequestID, DeviceIndex: deviceIndex}
}

// StopAllDevices stops every connected device.
type StopAllDevices struct {
	MessageID uint32 `json:"Id"`
}

// NewStopAllDevices creates a StopAllDevices with the default request id.
func NewStopAllDevices() *StopAllDevices {
	return &StopAllDevices{MessageID: DefaultRequestID}
}

// ---------------------------------------------------------------------------
// Vendor-specific device commands
// ---------------------------------------------------------------------------

// FleshlightLaunchFW12Cmd drives a Fleshlight Launch on firmware 1.2.
// Position and Speed are the device's native 0-99 values.
type FleshlightLaunchFW12Cmd struct {
	MessageID   uint32 `json:"Id"`
	DeviceIndex uint32 `json:"DeviceIndex"`
	Position    uint8  `json:"Position"`
	Speed       uint8  `json:"Speed"`
}

// NewFleshlightLaunchFW12Cmd creates a FleshlightLaunchFW12Cmd with the default request id.
func NewFleshlightLaunchFW12Cmd(deviceIndex uint32, position, speed uint8) *FleshlightLaunchFW12Cmd {
	return &FleshlightLaunchFW12Cmd{
		MessageID:   DefaultRequestID,
		DeviceIndex: deviceIndex,
		Position:    position,
		Speed:       speed,
	}
}

// LovenseCmd passes a raw Lovense command string to the device.
type LovenseCmd struct {
	MessageID   uint32 `json:"Id"`
	DeviceIndex uint32 `json:"DeviceIndex"`
	Command     string `json:"Command"`
}

// NewLovenseCmd creates a LovenseCmd with the default request id.
func NewLovenseCmd(deviceIndex uint32, command string) *LovenseCmd {
	return &LovenseCmd{MessageID: DefaultRequestID, DeviceIndex: deviceIndex, Command: command}
}

// KiirooCmd passes a raw Kiiroo command string to the device.
type KiirooCmd struct {
	MessageID   uint32 `json:"Id"`
	DeviceIndex uint32 `json:"DeviceIndex"`
	Command     string `json:"Command"`
}

// NewKiirooCmd creates a KiirooCmd with the default request id.
func NewKiirooCmd(deviceIndex uint32, command string) *KiirooCmd {
	return &KiirooCmd{MessageID: DefaultRequestID, DeviceIndex: deviceIndex, Command: command}
}

// VorzeA10CycloneCmd drives a Vorze A10 Cyclone rotator. Speed is 0-99.
type VorzeA10CycloneCmd struct {
	MessageID   uint32 `json:"Id"`
	DeviceIndex uint32 `json:"DeviceIndex"`
	Speed       uint32 `json:"Speed"`
	Clockwise   bool   `json:"Clockwise"`
}

// NewVorzeA10CycloneCmd creates a VorzeA10CycloneCmd with the default request id.
func NewVorzeA10CycloneCmd(deviceIndex, speed uint32, clockwise bool) *VorzeA10CycloneCmd {
	return &VorzeA10CycloneCmd{
		MessageID:   DefaultRequestID,
		DeviceIndex: deviceIndex,
		Speed:       speed,
		Clockwise:   clockwise,
	}
}

// ---------------------------------------------------------------------------
// Raw transport access
// ---------------------------------------------------------------------------

// RawWriteCmd writes bytes to a device endpoint.
type RawWriteCmd struct {
	MessageID         uint32   `json:"Id"`
	DeviceIndex       uint32   `json:"DeviceIndex"`
	Endpoint          Endpoint `json:"Endpoint"`
	Data              RawData  `json:"Data"`
	WriteWithResponse bool     `json:"WriteWithResponse"`
}

// NewRawWriteCmd creates a RawWriteCmd with the default request id.
func NewRawWriteCmd(deviceIndex uint32, endpoint Endpoint, data []byte, writeWithResponse bool) *RawWriteCmd {
	return &RawWriteCmd{
		MessageID:         DefaultRequestID,
		DeviceIndex:       deviceIndex,
		Endpoint:          endpoint,
		Data:              data,
		WriteWithResponse: writeWithResponse,
	}
}

// RawReadCmd reads bytes from a device endpoint.
type RawReadCmd struct {
	MessageID      uint32   `json:"Id"`
	DeviceIndex    uint32   `json:"DeviceIndex"`
	Endpoint       Endpoint `json:"Endpoint"`
	ExpectedLength uint32   `json:"ExpectedLength"`
	WaitForData    bool     `json:"WaitForData"`
}

// NewRawReadCmd creates a RawReadCmd with the default request id.
func NewRawReadCmd(deviceIndex uint32, endpoint Endpoint, expectedLength uint32, waitForData bool) *RawReadCmd {
	return &RawReadCmd{
		MessageID:      DefaultRequestID,
		DeviceIndex:    deviceIndex,
		Endpoint:       endpoint,
		ExpectedLength: expectedLength,
		WaitForData:    waitForData,
	}
}

// RawReading carries bytes read from a device endpoint.
type RawReading struct {
	MessageID   uint32   `json:"Id"`
	DeviceIndex uint32   `json:"DeviceIndex"`
	Endpoint    Endpoint `json:"Endpoint"`
	Data        RawData  `json:"Data"`
}

// NewRawReading creates a RawReading with the default request id.
func NewRawReading(deviceIndex uint32, endpoint Endpoint, data []byte) *RawReading {
	return &RawReading{
		MessageID:   DefaultRequestID,
		DeviceIndex: deviceIndex,
		Endpoint:    endpoint,
		Data:        data,
	}
}
