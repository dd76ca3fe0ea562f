package mocks

import (
	"context"
)

// MockHealthChecker reports a fixed database health result
type MockHealthChecker struct {
	Err   error
	Calls int
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.Calls++
	return m.Err
}
