package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIReleaseReport_MarshalJSON(t *testing.T) {
	t.Run("Should write CoderCLIs keys in the recorded order", func(t *testing.T) {
		report := CLIReleaseReport{
			Summary: &ReleaseSummary{MostRecentPublishedAt: "2025-09-21T06:00:00Z", Package: "b"},
			CoderCLIs: map[string]CLIRelease{
				"a": {},
				"c": {},
				"b": {},
			},
			Order: []string{"c", "a", "b"},
		}

		data, err := json.Marshal(report)
		require.NoError(t, err)
		text := string(data)
		assert.True(t, strings.HasPrefix(text, `{"Summary":{"MostRecentPublishedAt":`))
		assert.Less(t, strings.Index(text, `"c":`), strings.Index(text, `"a":`))
		assert.Less(t, strings.Index(text, `"a":`), strings.Index(text, `"b":`))
		assert.NotContains(t, text, "Order")
	})

	t.Run("Should append unordered keys sorted and round-trip the records", func(t *testing.T) {
		report := &CLIReleaseReport{
			CoderCLIs: map[string]CLIRelease{"z": {}, "y": {}, "x": {}},
			Order:     []string{"z", "missing"},
		}

		data, err := json.Marshal(report)
		require.NoError(t, err)
		assert.Equal(t,
			`{"Summary":null,"CoderCLIs":{"z":{"Error":null,"GitHub":null,"NPM":null},`+
				`"x":{"Error":null,"GitHub":null,"NPM":null},"y":{"Error":null,"GitHub":null,"NPM":null}}}`,
			string(data))

		var decoded CLIReleaseReport
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Len(t, decoded.CoderCLIs, 3)
		assert.Nil(t, decoded.Summary)
	})

	t.Run("Should encode a nil record map as null", func(t *testing.T) {
		data, err := json.Marshal(CLIReleaseReport{})
		require.NoError(t, err)
		assert.Equal(t, `{"Summary":null,"CoderCLIs":null}`, string(data))
	})
}
