package bus

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestFireWithoutHub(t *testing.T) {
	b := New(nil, testLogger())

	// Must not panic with no hub attached
	b.Fire("virtual_light_update", map[string]interface{}{"action": "turn_on"})
}

func TestSubscribersReceiveEvents(t *testing.T) {
	b := New(nil, testLogger())

	var got []string
	b.Subscribe(func(event string, payload map[string]interface{}) {
		got = append(got, event)
	})
	b.Subscribe(func(event string, payload map[string]interface{}) {
		got = append(got, "second:"+event)
	})

	b.Fire("virtual_lock_update", map[string]interface{}{"action": "lock"})

	assert.Equal(t, []string{"virtual_lock_update", "second:virtual_lock_update"}, got)
}
