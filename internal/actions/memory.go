package actions

import "fmt"

// Memory is an in-process Pipeline for tests.
type Memory struct {
	Inputs   map[string]string
	Outputs  map[string]string
	State    map[string]string
	Notices  []string
	Failures []error
}

func NewMemory(inputs map[string]string) *Memory {
	if inputs == nil {
		inputs = map[string]string{}
	}
	return &Memory{
		Inputs:  inputs,
		Outputs: map[string]string{},
		State:   map[string]string{},
	}
}

func (m *Memory) GetInput(name string, opts *InputOptions) (string, error) {
	return requireInput(name, m.Inputs[name], opts)
}

func (m *Memory) SetOutput(name, value string) error {
	m.Outputs[name] = value
	return nil
}

func (m *Memory) GetState(name string) string { return m.State[name] }

func (m *Memory) SaveState(name, value string) error {
	m.State[name] = value
	return nil
}

func (m *Memory) Notice(format string, args ...any) {
	m.Notices = append(m.Notices, fmt.Sprintf(format, args...))
}

func (m *Memory) SetFailed(err error) { m.Failures = append(m.Failures, err) }

func (m *Memory) Failed() bool { return len(m.Failures) > 0 }
