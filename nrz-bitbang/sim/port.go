package sim

// Edge is one register write as seen on the port: the time of the write and
// the output word after it.
type Edge struct {
	At  uint32
	Out uint32
}

// Port is a 32 line GPIO bank. Its registers log every write, stamped with
// the clock's current count.
type Port struct {
	clock *Clock
	out   uint32
	Trace []Edge
}

// NewPort returns a port with output word initial.
func NewPort(clock *Clock, initial uint32) *Port {
	return &Port{clock: clock, out: initial}
}

// Out returns the current output word.
func (p *Port) Out() uint32 { return p.out }

// Level reports whether line bit is high.
func (p *Port) Level(bit uint8) bool { return p.out&(1<<(bit&31)) != 0 }

// SetReg returns the write-1-to-set alias of the output register.
func (p *Port) SetReg() *Register { return &Register{port: p, op: opSet} }

// ClearReg returns the write-1-to-clear alias of the output register.
func (p *Port) ClearReg() *Register { return &Register{port: p, op: opClear} }

// OutReg returns the plain output register.
func (p *Port) OutReg() *Register { return &Register{port: p, op: opWrite} }

type regOp uint8

const (
	opWrite regOp = iota
	opSet
	opClear
)

// Register is one view of a Port's output register. It satisfies
// bitbang.Register.
type Register struct {
	port   *Port
	op     regOp
	Writes int
}

// Set applies a write.
func (r *Register) Set(value uint32) {
	p := r.port
	switch r.op {
	case opSet:
		p.out |= value
	case opClear:
		p.out &^= value
	default:
		p.out = value
	}
	r.Writes++
	p.Trace = append(p.Trace, Edge{At: p.clock.Peek(), Out: p.out})
}

// Get reads the output word.
func (r *Register) Get() uint32 { return r.port.out }
