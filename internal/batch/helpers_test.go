package batch

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"hypercert-metadata/internal/config"
	"hypercert-metadata/internal/metadata"
	"hypercert-metadata/internal/registry"
)

const (
	climateRound = "0x1b165fe4da6bc58ab8370ddc763d367d29f50ef0"
	ossRound     = "0xd95a1969c41112cee9a2c931e849bcef36a16f4c"
	solarAddr    = "0x1111111111111111111111111111111111111111"
	guildAddr    = "0x2222222222222222222222222222222222222222"
)

func testRegistry() *registry.Registry {
	return registry.New(map[string][]registry.Project{
		"Climate Solutions":    {{Title: "Solar Commons", Address: solarAddr}},
		"Open Source Software": {{Title: "Protocol Guild", Address: guildAddr}, {Title: "!!!", Address: guildAddr}},
	})
}

func testMapper() *metadata.Mapper {
	return metadata.NewMapper(config.NewDefault(), testRegistry())
}

// payload returns the JSON text of an application.
func payload(t *testing.T, round, recipient, title string) string {
	t.Helper()

	doc := map[string]any{
		"application": map[string]any{
			"round":     round,
			"recipient": recipient,
			"answers":   []any{},
			"project": map[string]any{
				"title":       title,
				"description": "About " + title,
				"website":     "https://example.org/" + title,
				"createdAt":   1700000000123,
			},
		},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	return string(data)
}

// buildCSV renders rows of project_id and ipfs_data as CSV text.
func buildCSV(t *testing.T, rows ...[2]string) string {
	t.Helper()

	var sb strings.Builder

	w := csv.NewWriter(&sb)
	require.NoError(t, w.Write([]string{"project_id", "ipfs_data"}))

	for _, r := range rows {
		require.NoError(t, w.Write(r[:]))
	}

	w.Flush()
	require.NoError(t, w.Error())

	return sb.String()
}

func listJSON(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string

	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}

	return names
}
