package dotenv

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsProdEnv(t *testing.T) {
	os.Setenv("BITEJOURNAL_ENV", ProdEnv)
	require.True(t, IsProdEnv())

	os.Setenv("BITEJOURNAL_ENV", TestEnv)
	require.False(t, IsProdEnv())

	os.Unsetenv("BITEJOURNAL_ENV")
	require.False(t, IsProdEnv())
}

// Missing .env files are not an error, in tests or anywhere else.
func TestLoadDotEnvsTolerateMissingFiles(t *testing.T) {
	require.NoError(t, LoadDotEnvs())
	require.NoError(t, LoadDotEnvsInTests())
}
