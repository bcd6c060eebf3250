package comms

import (
	"context"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestClientRoundTrip(t *testing.T) {
	logger := golog.NewTestLogger(t)

	station, err := NewClient("127.0.0.1:0", nil, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, station.Close(context.Background()), test.ShouldBeNil)
	}()

	inbound := make(chan []byte, 1)
	station.Bind(func(src string, data []byte) {
		inbound <- data
	})

	robot, err := NewClient("127.0.0.1:0", map[string]string{
		"base_station": station.conn.LocalAddr().String(),
	}, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, robot.Close(context.Background()), test.ShouldBeNil)
	}()

	payload := []byte("artifact report")
	test.That(t, robot.Send(context.Background(), "base_station", payload), test.ShouldBeNil)

	select {
	case got := <-inbound:
		test.That(t, got, test.ShouldResemble, payload)
	case <-time.After(5 * time.Second):
		t.Fatal("datagram never arrived")
	}
}

func TestClientUnknownPeer(t *testing.T) {
	logger := golog.NewTestLogger(t)
	c, err := NewClient("127.0.0.1:0", nil, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, c.Close(context.Background()), test.ShouldBeNil)
	}()

	err = c.Send(context.Background(), "nowhere", []byte("hello"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestClientBadAddresses(t *testing.T) {
	logger := golog.NewTestLogger(t)
	_, err := NewClient("not an address", nil, logger)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewClient("127.0.0.1:0", map[string]string{"base_station": "no:such:addr:at:all"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
