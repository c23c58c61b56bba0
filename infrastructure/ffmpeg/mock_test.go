package ffmpeg

import (
	"context"
	"fmt"
)

// mockRunner records invocations and returns canned results
type mockRunner struct {
	calls      [][]string
	output     []byte
	outputErr  error
	failOnCall int // 1-based index of the Run call that fails, 0 = never
	failError  error
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.failOnCall > 0 && len(m.calls) == m.failOnCall {
		if m.failError != nil {
			return m.failError
		}
		return fmt.Errorf("exit status 1")
	}
	return nil
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.outputErr != nil {
		return nil, m.outputErr
	}
	return m.output, nil
}
