package postgresql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelper provides common testing utilities
type TestHelper struct {
	Container *TestContainer
	T         testing.TB
}

// NewTestHelper starts a container and applies the migrations found under migrationsPath.
func NewTestHelper(t testing.TB, migrationsPath string) *TestHelper {
	config := DefaultTestContainerConfig()
	config.MigrationsPath = migrationsPath
	return NewTestHelperWithConfig(t, config)
}

// NewTestHelperWithConfig creates a new test helper with custom configuration
func NewTestHelperWithConfig(t testing.TB, config *TestContainerConfig) *TestHelper {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	container, err := NewTestContainer(context.Background(), config)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Close(); err != nil {
			t.Logf("Failed to close test container: %v", err)
		}
	})

	return &TestHelper{
		Container: container,
		T:         t,
	}
}

// CleanupTables truncates all tables between tests
func (h *TestHelper) CleanupTables() {
	require.NoError(h.T, h.Container.TruncateAllTables())
}

// ExecuteSQL executes SQL and fails test on error
func (h *TestHelper) ExecuteSQL(sql string) {
	require.NoError(h.T, h.Container.ExecuteSQL(sql))
}

// GetClient returns the PostgreSQL client
func (h *TestHelper) GetClient() *Client {
	return h.Container.Client
}
