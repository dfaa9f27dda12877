package storages

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/reusee/whitespace/wsprog"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("storages: create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type cborInstruction struct {
	_   struct{} `cbor:",toarray"`
	Op  uint8
	Arg int64
}

type cborLabel struct {
	ID   int64             `cbor:"1,keyasint"`
	Body []cborInstruction `cbor:"2,keyasint"`
}

type cborProgram struct {
	Main   []cborInstruction `cbor:"1,keyasint"`
	Labels []cborLabel       `cbor:"2,keyasint,omitempty"`
}

func toCBOR(insts []wsprog.Instruction) []cborInstruction {
	ret := make([]cborInstruction, 0, len(insts))
	for _, inst := range insts {
		ret = append(ret, cborInstruction{
			Op:  uint8(inst.Op),
			Arg: int64(inst.Arg),
		})
	}
	return ret
}

func fromCBOR(insts []cborInstruction) []wsprog.Instruction {
	ret := make([]wsprog.Instruction, 0, len(insts))
	for _, inst := range insts {
		ret = append(ret, wsprog.Instruction{
			Op:  wsprog.Op(inst.Op),
			Arg: int(inst.Arg),
		})
	}
	return ret
}

// MarshalProgram encodes a program deterministically; equal programs give equal bytes.
func MarshalProgram(prog *wsprog.Program) ([]byte, error) {
	p := cborProgram{
		Main: toCBOR(prog.Main),
	}
	for _, label := range prog.Labels {
		p.Labels = append(p.Labels, cborLabel{
			ID:   int64(label.ID),
			Body: toCBOR(label.Body),
		})
	}
	return cborEncMode.Marshal(p)
}

// UnmarshalProgram decodes and validates a program encoded by MarshalProgram.
func UnmarshalProgram(data []byte) (*wsprog.Program, error) {
	var p cborProgram
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("storages: unmarshal program: %w", err)
	}
	labels := make([]wsprog.Label, 0, len(p.Labels))
	for _, label := range p.Labels {
		labels = append(labels, wsprog.Label{
			ID:   int(label.ID),
			Body: fromCBOR(label.Body),
		})
	}
	prog, err := wsprog.NewProgram(fromCBOR(p.Main), labels...)
	if err != nil {
		return nil, fmt.Errorf("storages: invalid program: %w", err)
	}
	return prog, nil
}
