package script

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/ezrec/z80/cpu"
)

// Z80 is the Starlark value of a CPU whose bus is a set of Starlark
// functions.
type Z80 struct {
	cpu *cpu.Cpu

	readByte  starlark.Callable
	writeByte starlark.Callable
	inPort    starlark.Callable
	outPort   starlark.Callable

	debugMessage starlark.Callable
	consumeClock starlark.Callable

	mutex   sync.Mutex       // Held for each call-out.
	thread  *starlark.Thread // Thread of the running execute.
	err     error            // First call-out failure of the running execute.
	running atomic.Bool
	frozen  bool
}

var (
	_ starlark.HasAttrs    = (*Z80)(nil)
	_ starlark.HasSetField = (*Z80)(nil)
)

var z80Methods = map[string]*starlark.Builtin{
	"execute":                    starlark.NewBuiltin("execute", z80Execute),
	"request_break":              starlark.NewBuiltin("request_break", z80RequestBreak),
	"generate_irq":               starlark.NewBuiltin("generate_irq", z80GenerateIrq),
	"generate_nmi":               starlark.NewBuiltin("generate_nmi", z80GenerateNmi),
	"set_debug_message":          starlark.NewBuiltin("set_debug_message", z80SetDebugMessage),
	"set_consume_clock_callback": starlark.NewBuiltin("set_consume_clock_callback", z80SetConsumeClock),
}

// newZ80 implements z80.Z80(readByte, writeByte, inPort, outPort, returnPortAs16Bits=False)
func newZ80(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	z := &Z80{}
	var port16 bool

	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"readByte", &z.readByte,
		"writeByte", &z.writeByte,
		"inPort", &z.inPort,
		"outPort", &z.outPort,
		"returnPortAs16Bits?", &port16,
	)
	if err != nil {
		return nil, err
	}

	z.cpu = cpu.NewCpu(&calloutBus{z80: z}, port16)

	return z, nil
}

func (z *Z80) String() string {
	return fmt.Sprintf("<Z80 PC=%04X>", z.cpu.PC())
}

func (z *Z80) Type() string { return "Z80" }

func (z *Z80) Freeze() {
	if z.frozen {
		return
	}
	z.frozen = true
	for _, fn := range []starlark.Callable{z.readByte, z.writeByte, z.inPort, z.outPort, z.debugMessage, z.consumeClock} {
		if fn != nil {
			fn.Freeze()
		}
	}
}

func (z *Z80) Truth() starlark.Bool { return starlark.True }

func (z *Z80) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", z.Type())
}

func (z *Z80) Attr(name string) (starlark.Value, error) {
	switch name {
	case "PC":
		return starlark.MakeInt(int(z.cpu.PC())), nil
	case "reg":
		return registerStruct(z.cpu.Registers()), nil
	}

	if method, ok := z80Methods[name]; ok {
		return method.BindReceiver(z), nil
	}

	return nil, nil
}

func (z *Z80) AttrNames() []string {
	names := []string{"PC", "reg"}
	for name := range z80Methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetField implements the writable PC property.
func (z *Z80) SetField(name string, value starlark.Value) error {
	if name != "PC" {
		return starlark.NoSuchAttrError(fmt.Sprintf("Z80 has no settable field .%s", name))
	}
	if z.frozen {
		return ErrFrozen
	}

	pc, err := starlark.AsInt32(value)
	if err != nil {
		return fmt.Errorf("PC: %w", err)
	}
	z.cpu.SetPC(uint16(pc))

	return nil
}

var (
	registerPairConstructor = starlark.String("RegisterPair")
	registerConstructor     = starlark.String("Register")
)

func registerSetStruct(rs cpu.RegisterSet) *starlarkstruct.Struct {
	return starlarkstruct.FromStringDict(registerPairConstructor, starlark.StringDict{
		"A": starlark.MakeInt(int(rs.A)),
		"F": starlark.MakeInt(int(rs.F)),
		"B": starlark.MakeInt(int(rs.B)),
		"C": starlark.MakeInt(int(rs.C)),
		"D": starlark.MakeInt(int(rs.D)),
		"E": starlark.MakeInt(int(rs.E)),
		"H": starlark.MakeInt(int(rs.H)),
		"L": starlark.MakeInt(int(rs.L)),
	})
}

// registerStruct is a read only snapshot of the registers.
func registerStruct(reg cpu.Registers) *starlarkstruct.Struct {
	return starlarkstruct.FromStringDict(registerConstructor, starlark.StringDict{
		"pair":            registerSetStruct(reg.Pair),
		"back":            registerSetStruct(reg.Back),
		"PC":              starlark.MakeInt(int(reg.PC)),
		"SP":              starlark.MakeInt(int(reg.SP)),
		"IX":              starlark.MakeInt(int(reg.IX)),
		"IY":              starlark.MakeInt(int(reg.IY)),
		"WZ":              starlark.MakeInt(int(reg.WZ)),
		"R":               starlark.MakeInt(int(reg.R)),
		"I":               starlark.MakeInt(int(reg.I)),
		"IFF":             starlark.MakeInt(int(reg.IFF)),
		"IM":              starlark.MakeInt(int(reg.IM)),
		"interruptVector": starlark.MakeInt(int(reg.InterruptVector)),
		"interruptAddrN":  starlark.MakeInt(int(reg.InterruptAddrN)),
		"halted":          starlark.Bool(reg.Halted),
	})
}

// call makes a call-out into Starlark. On failure the error is kept, a
// break is requested, and ok is false.
func (z *Z80) call(name string, fn starlark.Callable, args ...starlark.Value) (result starlark.Value, ok bool) {
	z.mutex.Lock()
	defer z.mutex.Unlock()

	if z.err != nil || z.thread == nil {
		return
	}

	result, err := starlark.Call(z.thread, fn, starlark.Tuple(args), nil)
	if err != nil {
		z.err = &ErrCallout{Name: name, Err: err}
		z.cpu.RequestBreak()
		return
	}

	ok = true
	return
}

// callByte makes a call-out that returns a byte.
func (z *Z80) callByte(name string, fn starlark.Callable, args ...starlark.Value) uint8 {
	result, ok := z.call(name, fn, args...)
	if !ok {
		return cpu.OPEN_BUS
	}

	value, err := starlark.AsInt32(result)
	if err != nil {
		z.mutex.Lock()
		z.err = &ErrCallout{Name: name, Err: fmt.Errorf("%w: got %s", ErrResultType, result.Type())}
		z.mutex.Unlock()
		z.cpu.RequestBreak()
		return cpu.OPEN_BUS
	}

	return uint8(value)
}

// calloutBus presents the Starlark call-outs of a Z80 as a cpu.Bus.
type calloutBus struct {
	z80 *Z80
}

var _ cpu.Bus = (*calloutBus)(nil)

func (cb *calloutBus) Read(addr uint16) uint8 {
	z := cb.z80
	return z.callByte("readByte", z.readByte, starlark.MakeInt(int(addr)))
}

func (cb *calloutBus) Write(addr uint16, value uint8) {
	z := cb.z80
	z.call("writeByte", z.writeByte, starlark.MakeInt(int(addr)), starlark.MakeInt(int(value)))
}

func (cb *calloutBus) In(port uint16) uint8 {
	z := cb.z80
	return z.callByte("inPort", z.inPort, starlark.MakeInt(int(port)))
}

func (cb *calloutBus) Out(port uint16, value uint8) {
	z := cb.z80
	z.call("outPort", z.outPort, starlark.MakeInt(int(port)), starlark.MakeInt(int(value)))
}

// execute(cycles) runs at least cycles T-states and returns the count run.
func z80Execute(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	z := b.Receiver().(*Z80)

	var cycles int
	err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &cycles)
	if err != nil {
		return nil, err
	}

	if !z.running.CompareAndSwap(false, true) {
		return nil, ErrReentered
	}
	defer z.running.Store(false)

	z.mutex.Lock()
	z.thread = thread
	z.err = nil
	z.mutex.Unlock()

	executed := z.cpu.Execute(cycles)

	z.mutex.Lock()
	err = z.err
	z.thread = nil
	z.err = nil
	z.mutex.Unlock()

	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(executed), nil
}

func z80RequestBreak(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	z := b.Receiver().(*Z80)

	err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0)
	if err != nil {
		return nil, err
	}

	z.cpu.RequestBreak()

	return starlark.None, nil
}

func z80GenerateIrq(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	z := b.Receiver().(*Z80)

	var vector int
	err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &vector)
	if err != nil {
		return nil, err
	}

	z.cpu.GenerateIRQ(uint8(vector))

	return starlark.None, nil
}

func z80GenerateNmi(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	z := b.Receiver().(*Z80)

	var addr int
	err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &addr)
	if err != nil {
		return nil, err
	}

	z.cpu.GenerateNMI(uint16(addr))

	return starlark.None, nil
}

// unpackCallback accepts a callable, or None to remove the callback.
func unpackCallback(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (fn starlark.Callable, err error) {
	var value starlark.Value
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value)
	if err != nil {
		return
	}

	if value == starlark.None {
		return
	}

	fn, ok := value.(starlark.Callable)
	if !ok {
		err = fmt.Errorf("%s: got %s, want callable or None", b.Name(), value.Type())
	}

	return
}

func z80SetDebugMessage(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	z := b.Receiver().(*Z80)

	fn, err := unpackCallback(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	z.debugMessage = fn
	if fn == nil {
		z.cpu.SetDebugMessage(nil)
	} else {
		z.cpu.SetDebugMessage(func(msg string) {
			z.call("debug_message", fn, starlark.String(msg))
		})
	}

	return starlark.None, nil
}

func z80SetConsumeClock(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	z := b.Receiver().(*Z80)

	fn, err := unpackCallback(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	z.consumeClock = fn
	if fn == nil {
		z.cpu.SetConsumeClockCallback(nil)
	} else {
		z.cpu.SetConsumeClockCallback(func(cycles int) {
			z.call("consume_clock", fn, starlark.MakeInt(cycles))
		})
	}

	return starlark.None, nil
}
