package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buttplug-go/buttplug/pkg/message"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"lovense"}, r.Names())

	p, err := r.New("lovense", Config{Selection: selection(t, "LVS-S001")})
	require.NoError(t, err)
	assert.Equal(t, LovenseName, p.Name())
	assert.Equal(t, StateUninitialized, p.State())

	_, err = r.New("kiiroo", Config{})
	assert.Error(t, err)

	require.NoError(t, r.Register("kiiroo", NewLovense))
	assert.Error(t, r.Register("kiiroo", NewLovense))
	assert.Equal(t, []string{"kiiroo", "lovense"}, r.Names())
}

func TestBaseCopiesAttributes(t *testing.T) {
	sel := selection(t, "LVS-S001")
	var b Base
	b.Configure("TestProtocol", Config{Selection: sel})
	delete(sel.Messages, "VibrateCmd")

	_, ok := b.Attributes(message.KindVibrateCmd)
	assert.True(t, ok, "configuration changes after construction do not leak in")
}

func TestBaseReject(t *testing.T) {
	var b Base
	b.Configure("TestProtocol", Config{})
	msg := requireDeviceError(t, b.Reject(message.NewKiirooCmd(0, "1")))
	assert.Equal(t, "TestProtocol does not accept KiirooCmd messages.", msg)
}
