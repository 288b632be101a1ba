package ihex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRecord(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line   string
		record Record
		err    error
	}){
		{":00000001FF", Record{Type: RECORD_EOF, Data: []byte{}}, nil},
		{"  :050100003E41D3017631\r", Record{Type: RECORD_DATA, Addr: 0x0100, Data: []byte{0x3e, 0x41, 0xd3, 0x01, 0x76}}, nil},
		{":020000040001F9", Record{Type: RECORD_EXTENDED_LINEAR, Data: []byte{0x00, 0x01}}, nil},
		{":0400000312340010a3", Record{Type: RECORD_START_SEGMENT, Data: []byte{0x12, 0x34, 0x00, 0x10}}, nil},
		{"00000001FF", Record{}, ErrRecordMark},
		{":0G000001FF", Record{}, ErrRecordHex},
		{":000001FF", Record{}, ErrRecordShort},
		{":0100000000", Record{}, ErrRecordLength},
		{":00000001FE", Record{}, ErrRecordChecksum},
		{":00000006FA", Record{}, ErrRecordType},
		{":0100000100FE", Record{}, ErrRecordSize},
	}

	for _, entry := range table {
		record, err := ParseRecord(entry.line)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.line)
			continue
		}
		if !assert.NoError(err, entry.line) {
			continue
		}
		assert.Equal(entry.record, record, entry.line)
	}
}

func TestRecord(t *testing.T) {
	assert := assert.New(t)

	rec := Record{Type: RECORD_DATA, Addr: 0x0100, Data: []byte{0x3e, 0x41, 0xd3, 0x01, 0x76}}
	assert.Equal(uint8(0x31), rec.Checksum())
	assert.Equal(":050100003E41D3017631", rec.String())
	assert.Equal(":00000001FF", Record{Type: RECORD_EOF}.String())

	start := Record{Type: RECORD_START_LINEAR, Data: []byte{0x00, 0x01, 0x02, 0x03}}
	assert.Equal(uint32(0x00010203), start.Value())

	assert.Equal("start segment address", RECORD_START_SEGMENT.String())
	assert.Equal("RecordType(6)", RecordType(6).String())
}
