package io

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/ezrec/z80/cpu"
	"github.com/ezrec/z80/internal"
)

//go:generate go tool stringer -linecomment -type=EventType

// EventType is the kind of a bus cycle.
type EventType uint8

const (
	EVENT_FETCH EventType = 'M' // M
	EVENT_READ  EventType = 'R' // R
	EVENT_WRITE EventType = 'W' // W
	EVENT_IN    EventType = 'r' // r
	EVENT_OUT   EventType = 'w' // w
)

// EVENT_SIZE is the encoded size of an Event.
const EVENT_SIZE = 4

// Event is a single recorded bus cycle.
type Event struct {
	Type  EventType
	Value uint8
	Addr  uint16 // Memory address or port.
}

func (ev Event) String() string {
	return fmt.Sprintf("%v v:%02X a:%04X", ev.Type, ev.Value, ev.Addr)
}

// MarshalBinary encodes the event as its type character, the value, and
// the little endian address.
func (ev Event) MarshalBinary() (data []byte, err error) {
	data = make([]byte, EVENT_SIZE)
	data[0] = byte(ev.Type)
	data[1] = ev.Value
	binary.LittleEndian.PutUint16(data[2:], ev.Addr)
	return
}

// UnmarshalBinary decodes an event encoded by MarshalBinary.
func (ev *Event) UnmarshalBinary(data []byte) (err error) {
	if len(data) < EVENT_SIZE {
		err = ErrEventTruncated
		return
	}

	kind := EventType(data[0])
	switch kind {
	case EVENT_FETCH, EVENT_READ, EVENT_WRITE, EVENT_IN, EVENT_OUT:
	default:
		err = ErrEventType
		return
	}

	*ev = Event{
		Type:  kind,
		Value: data[1],
		Addr:  binary.LittleEndian.Uint16(data[2:]),
	}

	return
}

// ReadEvents decodes a stream of encoded events.
// Decoding stops at the first error, which is yielded.
func ReadEvents(r io.Reader) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		var data [EVENT_SIZE]byte
		for index := 0; ; index++ {
			_, err := io.ReadFull(r, data[:])
			if errors.Is(err, io.EOF) {
				return
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				err = ErrEventTruncated
			}

			var ev Event
			if err == nil {
				err = ev.UnmarshalBinary(data[:])
			}
			if err != nil {
				yield(ev, &ErrEvent{Index: index, Err: err})
				return
			}

			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Recorder is a cpu.Bus that forwards to another bus and records every
// cycle. Opcode fetches are recorded separately from memory reads.
type Recorder struct {
	Bus   cpu.Bus // Bus the accesses are forwarded to.
	Limit int     // Maximum events kept; the oldest are dropped. Zero is unlimited.

	events []Event
	head   int // Oldest event, once the limit is reached.
}

var _ cpu.Bus = (*Recorder)(nil)
var _ cpu.Fetcher = (*Recorder)(nil)

func (rec *Recorder) record(kind EventType, addr uint16, value uint8) {
	ev := Event{Type: kind, Value: value, Addr: addr}
	if rec.Limit > 0 && len(rec.events) >= rec.Limit {
		rec.events[rec.head] = ev
		rec.head = (rec.head + 1) % len(rec.events)
		return
	}
	rec.events = append(rec.events, ev)
}

// Reset drops all recorded events.
func (rec *Recorder) Reset() {
	rec.events = nil
	rec.head = 0
}

// Events returns the recorded events, oldest first.
func (rec *Recorder) Events() iter.Seq[Event] {
	return internal.IterSeqConcat(
		slices.Values(rec.events[rec.head:]),
		slices.Values(rec.events[:rec.head]),
	)
}

// Len returns the number of recorded events.
func (rec *Recorder) Len() int {
	return len(rec.events)
}

// WriteTo writes the encoded events to w.
func (rec *Recorder) WriteTo(w io.Writer) (n int64, err error) {
	for ev := range rec.Events() {
		var data []byte
		data, err = ev.MarshalBinary()
		if err != nil {
			return
		}
		var count int
		count, err = w.Write(data)
		n += int64(count)
		if err != nil {
			return
		}
	}

	return
}

func (rec *Recorder) Fetch(addr uint16) (value uint8) {
	if fetcher, ok := rec.Bus.(cpu.Fetcher); ok {
		value = fetcher.Fetch(addr)
	} else {
		value = rec.Bus.Read(addr)
	}
	rec.record(EVENT_FETCH, addr, value)
	return
}

func (rec *Recorder) Read(addr uint16) (value uint8) {
	value = rec.Bus.Read(addr)
	rec.record(EVENT_READ, addr, value)
	return
}

func (rec *Recorder) Write(addr uint16, value uint8) {
	rec.Bus.Write(addr, value)
	rec.record(EVENT_WRITE, addr, value)
}

func (rec *Recorder) In(port uint16) (value uint8) {
	value = rec.Bus.In(port)
	rec.record(EVENT_IN, port, value)
	return
}

func (rec *Recorder) Out(port uint16, value uint8) {
	rec.Bus.Out(port, value)
	rec.record(EVENT_OUT, port, value)
}
