// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/z80/emulator"
	"github.com/ezrec/z80/script"
)

func main() {
	var hex bool
	var org uint
	var rom bool
	var cycles int
	var trace bool
	var port16 bool
	var starlark string
	var input string
	var output string
	var record int
	var events string
	var digest bool
	var verbose bool

	flag.BoolVar(&hex, "x", false, "Image is Intel HEX, whatever its extension")
	flag.UintVar(&org, "org", 0, "Load address of a raw binary image")
	flag.BoolVar(&rom, "rom", false, "Write protect the loaded image")
	flag.IntVar(&cycles, "c", 0, "T-states to run; 0 runs until HALT")
	flag.BoolVar(&trace, "trace", false, "Trace each instruction to stderr")
	flag.BoolVar(&port16, "p16", false, "Present 16 bit port addresses")
	flag.StringVar(&starlark, "s", "", ".star script to run instead of an image")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.IntVar(&record, "record", 0, "Number of bus cycles to record")
	flag.StringVar(&events, "events", "", "File to save recorded bus cycles to")
	flag.BoolVar(&digest, "digest", false, "Print the machine state digest at exit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if len(starlark) != 0 {
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}
		m := &script.Machine{Verbose: verbose}
		_, err := m.Exec(starlark, nil)
		if err != nil {
			log.Fatalf("%v: %v", starlark, err)
		}
		return
	}

	if flag.NArg() != 1 {
		log.Fatalf("%v: Expected one image, got: %v", os.Args[0], flag.Args())
	}
	image := flag.Arg(0)

	if org > 0xffff {
		log.Fatalf("%v: -org 0x%x beyond 64K", os.Args[0], org)
	}

	emu := emulator.NewEmulator(port16, record)
	emu.Verbose = verbose

	var start uint16
	var err error
	if hex {
		start, err = emu.LoadHex(image, rom)
	} else {
		start, err = emu.Load(image, uint16(org), rom)
	}
	if err != nil {
		log.Fatal(err)
	}
	emu.SetPC(start)

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	if trace {
		emu.SetDebugMessage(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})
	}

	// Interrupt stops the CPU at the next instruction boundary.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		for range interrupt {
			emu.RequestBreak()
		}
	}()

	if cycles > 0 {
		ran := emu.Run(cycles)
		if verbose {
			log.Printf("%v: ran %d cycles", image, ran)
		}
	} else {
		_, err = emu.RunUntilHalt(0)
	}

	if verbose {
		log.Printf("%v: %v", image, emu.Registers())
	}

	if len(events) != 0 && emu.Recorder != nil {
		ouf, err := os.Create(events)
		if err != nil {
			log.Fatalf("%v: %v", events, err)
		}
		_, err = emu.Recorder.WriteTo(ouf)
		ouf.Close()
		if err != nil {
			log.Fatalf("%v: %v", events, err)
		}
	}

	if digest {
		fmt.Fprintf(os.Stderr, "%016x\n", emu.Digest())
	}

	if err != nil {
		log.Fatal(err)
	}

	if tape_err := emu.Tape.Err(); tape_err != nil {
		log.Fatalf("tape: %v", tape_err)
	}
}
