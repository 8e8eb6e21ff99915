package cmd

import (
	"bytes"
	"testing"

	"github.com/meinhoongagan/roadside-assist/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCatalog(&buf, pricing.Default()))

	out := buf.String()
	assert.Contains(t, out, "Jump Start")
	assert.Contains(t, out, "149.00")
	assert.Contains(t, out, "oil-check")
	assert.Contains(t, out, "Tire Services")
	assert.Contains(t, out, "(default)")
}

func TestApplicationCommandsAreRegistered(t *testing.T) {
	for _, path := range [][]string{{"serve"}, {"migrate"}, {"catalog"}, {"application", "approve"}, {"application", "reject"}, {"application", "list"}} {
		c, _, err := rootCmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], c.Name())
	}
	assert.NotNil(t, applicationRejectCmd.Flags().Lookup("reason"))
}
