package capture

import (
	"errors"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/trackerlink/internal/testutil/testlog"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	testlog.Start(t)
	s := openStore(t)

	id, err := s.Put(Record{Channel: ChannelControl, Direction: "IN", Source: "host.log", Line: 7, Frame: []byte{3, 2, 0}})
	require.NoError(t, err)

	rec, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, ChannelControl, rec.Channel)
	assert.Equal(t, "IN", rec.Direction)
	assert.Equal(t, "host.log", rec.Source)
	assert.Equal(t, 7, rec.Line)
	assert.Equal(t, []byte{3, 2, 0}, rec.Frame)
}

func TestListInCaptureOrder(t *testing.T) {
	testlog.Start(t)
	s := openStore(t)
	base := time.Unix(1700000000, 0)

	late, err := s.PutAt(base.Add(2*time.Second), Record{Channel: ChannelData, Frame: []byte{0xC0, 0x02}})
	require.NoError(t, err)
	early, err := s.PutAt(base, Record{Channel: ChannelControl, Direction: "OUT", Frame: []byte{2, 1}})
	require.NoError(t, err)

	var ids []ksuid.KSUID
	require.NoError(t, s.List(func(r Record) error {
		ids = append(ids, r.ID)
		return nil
	}))
	require.Equal(t, []ksuid.KSUID{early, late}, ids)

	rec, err := s.Get(early)
	require.NoError(t, err)
	assert.True(t, rec.Time().Equal(base))
}

func TestListStopsOnError(t *testing.T) {
	testlog.Start(t)
	s := openStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Put(Record{Channel: ChannelControl, Frame: []byte{2, byte(i)}})
		require.NoError(t, err)
	}
	stop := errors.New("stop")
	calls := 0
	err := s.List(func(Record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestGetMissingAndDelete(t *testing.T) {
	testlog.Start(t)
	s := openStore(t)

	_, err := s.Get(ksuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	id, err := s.Put(Record{Channel: ChannelData, Frame: []byte{0xC0, 0x02}})
	require.NoError(t, err)
	require.NoError(t, s.Delete(id))
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutRejectsUnknownChannel(t *testing.T) {
	testlog.Start(t)
	s := openStore(t)
	_, err := s.Put(Record{Channel: "usb", Frame: []byte{1}})
	assert.Error(t, err)
}

func TestReopenKeepsRecords(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	id, err := s.Put(Record{Channel: ChannelControl, Frame: []byte{2, 1}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	rec, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 1}, rec.Frame)
}
