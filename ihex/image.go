package ihex

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"iter"
	"log"
	"slices"
	"strings"

	"github.com/ezrec/z80/internal"
)

// Segment is a contiguous run of data.
type Segment struct {
	Addr uint32
	Data []byte
}

// End returns the address after the last byte of the segment.
func (seg Segment) End() uint32 {
	return seg.Addr + uint32(len(seg.Data))
}

// Bytes returns each address and byte of the segment.
func (seg Segment) Bytes() iter.Seq2[uint32, uint8] {
	return func(yield func(uint32, uint8) bool) {
		for n, b := range seg.Data {
			if !yield(seg.Addr+uint32(n), b) {
				return
			}
		}
	}
}

// Image is a decoded Intel HEX file. Segments are sorted by address, and
// adjacent segments are merged.
type Image struct {
	Segments []Segment
	Start    uint32 // Execution start address, linear or CS<<4 + IP.
	HasStart bool   // Set if the image has a start address record.
}

// Bytes returns each address and byte of the image, in address order.
func (img *Image) Bytes() iter.Seq2[uint32, uint8] {
	seqs := make([]iter.Seq2[uint32, uint8], len(img.Segments))
	for n, seg := range img.Segments {
		seqs[n] = seg.Bytes()
	}
	return internal.IterSeq2Concat(seqs...)
}

// Add a segment, keeping the segments sorted and merged.
func (img *Image) Add(addr uint32, data []byte) (err error) {
	if len(data) == 0 {
		return
	}

	seg := Segment{Addr: addr, Data: slices.Clone(data)}
	for _, other := range img.Segments {
		if seg.Addr < other.End() && other.Addr < seg.End() {
			err = fmt.Errorf("%w: %08X", ErrSegmentOverlap, addr)
			return
		}
	}

	segments := append(img.Segments, seg)
	slices.SortFunc(segments, func(a, b Segment) int {
		return cmp.Compare(a.Addr, b.Addr)
	})

	var merged []Segment
	for _, seg := range segments {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.End() == seg.Addr {
				last.Data = append(last.Data, seg.Data...)
				continue
			}
		}
		merged = append(merged, seg)
	}

	img.Segments = merged

	return
}

// Parser reads Intel HEX images.
type Parser struct {
	Verbose bool // If set, logs each record.
}

// Parse reads an image. Blank lines are skipped; reading stops at the
// end of file record.
func (ps *Parser) Parse(input io.Reader) (img *Image, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrLine{LineNo: lineno, Line: line, Err: err}
			img = nil
		}
	}()

	img = &Image{}

	var base uint32

	for scanner.Scan() {
		lineno++
		line = strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		var rec Record
		rec, err = ParseRecord(line)
		if err != nil {
			return
		}

		if ps.Verbose {
			log.Printf("ihex: %v: %v %04X %d bytes", lineno, rec.Type, rec.Addr, len(rec.Data))
		}

		switch rec.Type {
		case RECORD_DATA:
			err = img.Add(base+uint32(rec.Addr), rec.Data)
			if err != nil {
				return
			}
		case RECORD_EOF:
			return
		case RECORD_EXTENDED_SEGMENT:
			base = rec.Value() << 4
		case RECORD_EXTENDED_LINEAR:
			base = rec.Value() << 16
		case RECORD_START_SEGMENT:
			img.Start = (rec.Value()>>16)<<4 + rec.Value()&0xffff
			img.HasStart = true
		case RECORD_START_LINEAR:
			img.Start = rec.Value()
			img.HasStart = true
		}
	}

	err = scanner.Err()

	return
}

// Parse reads an image with a default Parser.
func Parse(input io.Reader) (img *Image, err error) {
	ps := &Parser{}
	return ps.Parse(input)
}

// Records returns the records encoding the image: data records of at most
// RECORD_DATA_MAX bytes, an extended linear address record whenever the
// upper 16 bits of the address change, the start linear address if set,
// and the end of file record.
func (img *Image) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		var upper uint32
		for _, seg := range img.Segments {
			addr := seg.Addr
			data := seg.Data
			for len(data) > 0 {
				if addr>>16 != upper {
					upper = addr >> 16
					rec := Record{Type: RECORD_EXTENDED_LINEAR, Data: []byte{uint8(upper >> 8), uint8(upper)}}
					if !yield(rec) {
						return
					}
				}

				// Records never cross a 64K boundary.
				size := min(len(data), RECORD_DATA_MAX, int(0x10000-addr&0xffff))
				rec := Record{Type: RECORD_DATA, Addr: uint16(addr), Data: data[:size]}
				if !yield(rec) {
					return
				}

				addr += uint32(size)
				data = data[size:]
			}
		}

		if img.HasStart {
			start := img.Start
			rec := Record{
				Type: RECORD_START_LINEAR,
				Data: []byte{uint8(start >> 24), uint8(start >> 16), uint8(start >> 8), uint8(start)},
			}
			if !yield(rec) {
				return
			}
		}

		yield(Record{Type: RECORD_EOF})
	}
}

// Encode writes the image, one record per line.
func (img *Image) Encode(output io.Writer) (err error) {
	for rec := range img.Records() {
		_, err = fmt.Fprintln(output, rec.String())
		if err != nil {
			return
		}
	}

	return
}
