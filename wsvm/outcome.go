package wsvm

type Outcome uint8

const (
	Running Outcome = iota
	Completed
	Halted
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Halted:
		return "halted"
	case Failed:
		return "failed"
	}
	return "invalid"
}

// Ok reports whether the run ended without error.
func (o Outcome) Ok() bool {
	return o == Completed || o == Halted
}
