// Package ihex reads and writes Intel HEX images.
//
// All six record types are understood: data, end of file, extended
// segment address, start segment address, extended linear address and
// start linear address. Every record checksum is verified.
package ihex
