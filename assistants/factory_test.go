package assistants_test

import (
	"testing"

	"github.com/salesdesk-ai/salesdesk/assistants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewFromConfig(t *testing.T) {
	sales, err := assistants.NewSalesFromConfig("testdata/llm.yaml")
	require.NoError(t, err)
	assert.Equal(t, assistants.RoleSales, sales.Role())
	assert.Equal(t, "Sales Assistant", sales.Name())

	support, err := assistants.NewSupportFromConfig("testdata/llm.yaml",
		assistants.WithUserID("user-1"))
	require.NoError(t, err)
	assert.Equal(t, assistants.RoleSupport, support.Role())
}

func Test_NewFromConfig_MissingFile(t *testing.T) {
	_, err := assistants.NewSalesFromConfig("testdata/no-such.yaml")
	assert.Error(t, err)

	_, err = assistants.NewSupportFromConfig("testdata/no-such.yaml")
	assert.Error(t, err)
}
