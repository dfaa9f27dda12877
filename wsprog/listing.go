package wsprog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Listing renders the program one instruction per line, label bodies indented under
// their headers.
func (p *Program) Listing() string {
	var sb strings.Builder
	for _, inst := range p.Main {
		sb.WriteString(inst.String())
		sb.WriteString("\n")
	}
	for _, label := range p.Labels {
		fmt.Fprintf(&sb, "label %d:\n", label.ID)
		for _, inst := range label.Body {
			sb.WriteString("\t")
			sb.WriteString(inst.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

type yamlProgram struct {
	Main   []string    `yaml:"main"`
	Labels []yamlLabel `yaml:"labels,omitempty"`
}

type yamlLabel struct {
	ID   int      `yaml:"id"`
	Body []string `yaml:"body"`
}

var _ yaml.Marshaler = Program{}

func (p Program) MarshalYAML() (any, error) {
	ret := yamlProgram{
		Main: instructionStrings(p.Main),
	}
	for _, label := range p.Labels {
		ret.Labels = append(ret.Labels, yamlLabel{
			ID:   label.ID,
			Body: instructionStrings(label.Body),
		})
	}
	return ret, nil
}

var _ yaml.Unmarshaler = new(Program)

func (p *Program) UnmarshalYAML(node *yaml.Node) error {
	var src yamlProgram
	if err := node.Decode(&src); err != nil {
		return err
	}
	main, err := parseInstructions(src.Main)
	if err != nil {
		return fmt.Errorf("main: %w", err)
	}
	labels := make([]Label, 0, len(src.Labels))
	for _, label := range src.Labels {
		body, err := parseInstructions(label.Body)
		if err != nil {
			return fmt.Errorf("label %d: %w", label.ID, err)
		}
		labels = append(labels, Label{
			ID:   label.ID,
			Body: body,
		})
	}
	prog, err := NewProgram(main, labels...)
	if err != nil {
		return err
	}
	*p = *prog
	return nil
}

func instructionStrings(insts []Instruction) []string {
	ret := make([]string, 0, len(insts))
	for _, inst := range insts {
		ret = append(ret, inst.String())
	}
	return ret
}

func parseInstructions(strs []string) ([]Instruction, error) {
	ret := make([]Instruction, 0, len(strs))
	for i, str := range strs {
		inst, err := ParseInstruction(str)
		if err != nil {
			return nil, fmt.Errorf("#%d: %w", i, err)
		}
		ret = append(ret, inst)
	}
	return ret, nil
}
