package ihex

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

//go:generate go tool stringer -linecomment -type=RecordType

// RecordType is the type field of a record.
type RecordType uint8

const (
	RECORD_DATA             RecordType = iota // data
	RECORD_EOF                                // end of file
	RECORD_EXTENDED_SEGMENT                   // extended segment address
	RECORD_START_SEGMENT                      // start segment address
	RECORD_EXTENDED_LINEAR                    // extended linear address
	RECORD_START_LINEAR                       // start linear address
)

// RECORD_DATA_MAX is the largest data field written by Encode.
const RECORD_DATA_MAX = 16

// dataSize is the required data field size of each non-data record type.
var dataSize = map[RecordType]int{
	RECORD_EOF:              0,
	RECORD_EXTENDED_SEGMENT: 2,
	RECORD_START_SEGMENT:    4,
	RECORD_EXTENDED_LINEAR:  2,
	RECORD_START_LINEAR:     4,
}

// Record is a single line of an Intel HEX image.
type Record struct {
	Type RecordType
	Addr uint16
	Data []byte
}

// Checksum returns the two's complement of the byte sum of the record.
func (rec Record) Checksum() (sum uint8) {
	sum = uint8(len(rec.Data)) + uint8(rec.Addr>>8) + uint8(rec.Addr) + uint8(rec.Type)
	for _, b := range rec.Data {
		sum += b
	}
	sum = -sum
	return
}

// Value returns the data field as a big endian number, as used by the
// address records.
func (rec Record) Value() (value uint32) {
	for _, b := range rec.Data {
		value = value<<8 | uint32(b)
	}
	return
}

// String returns the encoded record, without line terminator.
func (rec Record) String() string {
	return fmt.Sprintf(":%02X%04X%02X%X%02X", len(rec.Data), rec.Addr, uint8(rec.Type), rec.Data, rec.Checksum())
}

// ParseRecord decodes a single record. Surrounding white space is ignored.
func ParseRecord(line string) (rec Record, err error) {
	line = strings.TrimSpace(line)

	text, ok := strings.CutPrefix(line, ":")
	if !ok {
		err = ErrRecordMark
		return
	}

	raw, err := hex.DecodeString(text)
	if err != nil {
		err = errors.Join(ErrRecordHex, err)
		return
	}

	if len(raw) < 5 {
		err = ErrRecordShort
		return
	}

	count := int(raw[0])
	if len(raw) != count+5 {
		err = ErrRecordLength
		return
	}

	rec = Record{
		Type: RecordType(raw[3]),
		Addr: binary.BigEndian.Uint16(raw[1:3]),
		Data: raw[4 : 4+count],
	}

	if rec.Checksum() != raw[len(raw)-1] {
		err = ErrRecordChecksum
		return
	}

	if rec.Type > RECORD_START_LINEAR {
		err = ErrRecordType
		return
	}

	if size, ok := dataSize[rec.Type]; ok && size != count {
		err = ErrRecordSize
		return
	}

	return
}
