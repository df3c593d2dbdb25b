package message

// MessageAttributes describes which parameters a device supports for one
// message type. Every field is optional; an absent field means the
// parameter does not apply to that message on that device.
type MessageAttributes struct {
	FeatureCount *uint32    `json:"FeatureCount,omitempty"`
	StepCount    []uint32   `json:"StepCount,omitempty"`
	Endpoints    []Endpoint `json:"Endpoints,omitempty"`
	MaxDuration  []uint32   `json:"MaxDuration,omitempty"`
	Patterns     [][]string `json:"Patterns,omitempty"`
	ActuatorType []string   `json:"ActuatorType,omitempty"`
}

// FeatureCountOr returns the advertised feature count, or def if none is set.
func (a MessageAttributes) FeatureCountOr(def uint32) uint32 {
	if a.FeatureCount == nil {
		return def
	}
	return *a.FeatureCount
}

// HasEndpoint reports whether ep is in the advertised endpoint list.
func (a MessageAttributes) HasEndpoint(ep Endpoint) bool {
	for _, e := range a.Endpoints {
		if e == ep {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (a MessageAttributes) Clone() MessageAttributes {
	out := MessageAttributes{
		StepCount:    cloneSlice(a.StepCount),
		Endpoints:    cloneSlice(a.Endpoints),
		MaxDuration:  cloneSlice(a.MaxDuration),
		ActuatorType: cloneSlice(a.ActuatorType),
	}
	if a.FeatureCount != nil {
		n := *a.FeatureCount
		out.FeatureCount = &n
	}
	if a.Patterns != nil {
		out.Patterns = make([][]string, len(a.Patterns))
		for i, p := range a.Patterns {
			out.Patterns[i] = cloneSlice(p)
		}
	}
	return out
}

// DeviceMessages maps a message type name (e.g. "VibrateCmd") to the
// attributes a device advertises for it.
type DeviceMessages map[string]MessageAttributes

// Supports reports whether the device advertises the given message kind.
func (m DeviceMessages) Supports(k Kind) bool {
	_, ok := m[k.String()]
	return ok
}

// Attributes returns the attributes advertised for k.
func (m DeviceMessages) Attributes(k Kind) (MessageAttributes, bool) {
	a, ok := m[k.String()]
	return a, ok
}

// Clone returns a deep copy.
func (m DeviceMessages) Clone() DeviceMessages {
	if m == nil {
		return nil
	}
	out := make(DeviceMessages, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// DeviceMessageInfo describes one connected device inside a DeviceList.
type DeviceMessageInfo struct {
	DeviceIndex    uint32         `json:"DeviceIndex"`
	DeviceName     string         `json:"DeviceName"`
	DeviceMessages DeviceMessages `json:"DeviceMessages"`
}

// DeviceMessageInfoFromAdded projects a DeviceAdded event onto the
// DeviceList entry shape.
func DeviceMessageInfoFromAdded(added *DeviceAdded) DeviceMessageInfo {
	return DeviceMessageInfo{
		DeviceIndex:    added.DeviceIndex,
		DeviceName:     added.DeviceName,
		DeviceMessages: added.DeviceMessages.Clone(),
	}
}

// Uint32 returns a pointer to v, for filling optional attribute fields.
func Uint32(v uint32) *uint32 {
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
