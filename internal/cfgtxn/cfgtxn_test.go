package cfgtxn

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/cfgval"
	"github.com/bramburn/gnsshub/internal/msg"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

type recordingDevice struct {
	mu     sync.Mutex
	writes [][]byte
}

func (d *recordingDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := make([]byte, len(p))
	copy(cp, p)
	d.writes = append(d.writes, cp)
	return len(p), nil
}

func (d *recordingDevice) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.writes)
}

// TestSetAbortsOnNak: SET two configuration
// values, inject a NAK for (0x06,0x8A) after the first VALSET message;
// expect the operation to abort and report NAK, and expect no second
// VALSET chunk to have been written (both values fit in one chunk here,
// so aborting after chunk 1 simply means the call returns with exactly
// one write recorded).
func TestSetAbortsOnNak(t *testing.T) {
	dev := &recordingDevice{}
	incoming := make(chan msg.Message, 1)
	tr := New(dev, incoming, testLogger())

	values := []cfgval.Value{
		cfgval.NewBool(cfgval.Key(0x10710001), true),
		cfgval.NewU8(cfgval.Key(0x20710002), 5),
	}

	incoming <- &msg.UbxFrame{
		Class: msg.ClassAck,
		ID:    msg.AckNak,
		Body:  &msg.Ack{ClsID: msg.ClassCfg, MsgID: msg.CfgValSetID},
	}

	err := tr.Set(context.Background(), cfgval.BitLayerRAM, values)
	if err == nil {
		t.Fatal("Set with injected NAK: want error, got nil")
	}
	if dev.count() != 1 {
		t.Fatalf("writes = %d, want exactly 1 (aborted after first chunk)", dev.count())
	}
}

func TestSetSucceedsOnAck(t *testing.T) {
	dev := &recordingDevice{}
	incoming := make(chan msg.Message, 1)
	tr := New(dev, incoming, testLogger())

	incoming <- &msg.UbxFrame{
		Class: msg.ClassAck,
		ID:    msg.AckAck,
		Body:  &msg.Ack{ClsID: msg.ClassCfg, MsgID: msg.CfgValSetID},
	}

	err := tr.Set(context.Background(), cfgval.BitLayerRAM, []cfgval.Value{
		cfgval.NewBool(cfgval.Key(0x10710001), true),
	})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if dev.count() != 1 {
		t.Fatalf("writes = %d, want 1", dev.count())
	}
}

func TestSetIgnoresUnrelatedTrafficBeforeAck(t *testing.T) {
	dev := &recordingDevice{}
	incoming := make(chan msg.Message, 2)
	tr := New(dev, incoming, testLogger())

	incoming <- &msg.NmeaSentence{Raw: "$GPGGA,\r\n"}
	incoming <- &msg.UbxFrame{
		Class: msg.ClassAck,
		ID:    msg.AckAck,
		Body:  &msg.Ack{ClsID: msg.ClassCfg, MsgID: msg.CfgValSetID},
	}

	err := tr.Set(context.Background(), cfgval.BitLayerRAM, []cfgval.Value{
		cfgval.NewBool(cfgval.Key(0x10710001), true),
	})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
}

func TestGetRejectsInvalidLayer(t *testing.T) {
	dev := &recordingDevice{}
	tr := New(dev, make(chan msg.Message), testLogger())
	_, err := tr.Get(context.Background(), cfgval.Layer(99), []cfgval.Key{cfgval.Key(0x10710001)})
	if err == nil {
		t.Fatal("Get with invalid layer: want error, got nil")
	}
	if dev.count() != 0 {
		t.Fatalf("writes = %d, want 0 (rejected before writing)", dev.count())
	}
}

func TestGetReturnsValues(t *testing.T) {
	dev := &recordingDevice{}
	incoming := make(chan msg.Message, 1)
	tr := New(dev, incoming, testLogger())

	key := cfgval.Key(0x10710001)
	want := cfgval.NewBool(key, true)
	incoming <- &msg.UbxFrame{
		Class: msg.ClassCfg,
		ID:    msg.CfgValGetID,
		Body: &msg.CfgValGet{
			Layer:  cfgval.LayerRAM,
			Values: []cfgval.Value{want},
		},
	}

	got, err := tr.Get(context.Background(), cfgval.LayerRAM, []cfgval.Key{key})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 || got[0].Key != key {
		t.Fatalf("Get = %+v, want one value for key %s", got, key)
	}
}
