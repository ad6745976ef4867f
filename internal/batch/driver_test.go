package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"hypercert-metadata/internal/diagnostic"
	"hypercert-metadata/internal/metadata"
	"hypercert-metadata/internal/override"
)

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := buildCSV(t,
		[2]string{"0xsolar", payload(t, climateRound, solarAddr, "Solar Commons")},
		[2]string{"0xfake", payload(t, climateRound, solarAddr, "Solar Commons Fork")},
	)

	d := New(testMapper(), Options{OutputDir: dir})

	res, err := d.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "Created metadata for 1 projects.", res.Summary())
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 0, res.Failed)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{"solarcommons.json"}, listJSON(t, dir))
	assert.Equal(t, []string{filepath.Join(dir, "solarcommons.json")}, res.Files)

	require.Len(t, res.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeNotVerified, res.Diagnostics.Warnings[0].Code)
	assert.Equal(t, 3, res.Diagnostics.Warnings[0].Row)
	assert.False(t, res.Diagnostics.HasErrors())

	data, err := os.ReadFile(filepath.Join(dir, "solarcommons.json"))
	require.NoError(t, err)

	var rec metadata.Record
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "Solar Commons", rec.Name)
	assert.Equal(t, "About Solar Commons", rec.Description)
	assert.Equal(t, "https://example.org/Solar Commons", rec.ExternalURL)
	assert.Equal(t, "Climate Solutions", rec.MatchingPool())
	assert.Contains(t, rec.HiddenProperties.GitcoinGrantURL, "/0xsolar-"+climateRound)
	assert.True(t, strings.HasPrefix(string(data), "{\n    \"name\": \"Solar Commons\""))
}

func TestRun_RowFailuresDoNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	input := buildCSV(t,
		[2]string{"0x1", `{"application": `},
		[2]string{"0x2", `{"application": {"round": "` + climateRound + `"}}`},
		[2]string{"0x3", payload(t, "0xdeadbeef", solarAddr, "Solar Commons")},
		[2]string{"0x4", `{'application': {}}`},
		[2]string{"0x5", payload(t, ossRound, guildAddr, "Protocol Guild")},
		[2]string{"0x6", payload(t, ossRound, guildAddr, "!!!")},
	)

	core, logs := observer.New(zap.DebugLevel)
	d := New(testMapper(), Options{OutputDir: dir, Logger: zap.New(core)})

	res, err := d.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Written)
	assert.Equal(t, 5, res.Failed)
	assert.Equal(t, "Created metadata for 1 projects.", res.Summary())
	assert.Equal(t, []string{"protocolguild.json"}, listJSON(t, dir))

	codes := make([]string, 0, len(res.Diagnostics.Errors))
	for _, e := range res.Diagnostics.Errors {
		codes = append(codes, e.Code)
	}

	assert.Equal(t, []string{
		diagnostic.CodeParseError,
		diagnostic.CodeMissingField,
		diagnostic.CodeUnknownRound,
		diagnostic.CodeParseError,
		diagnostic.CodeWriteError,
	}, codes)

	// Failed rows carry their raw content
	first := res.Diagnostics.Errors[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "0x1", first.ProjectID)
	assert.Contains(t, first.Detail, `"ipfs_data"`)
	assert.Contains(t, first.Detail, `"0x1"`)

	skipped := logs.FilterMessage("Skipping row").All()
	require.Len(t, skipped, 5)
	assert.Contains(t, skipped[2].ContextMap()["error"], "unknown round")
	assert.Contains(t, skipped[0].ContextMap()["raw"], "0x1")

	if t.Failed() {
		spew.Dump(res.Diagnostics)
	}
}

func TestRun_Overrides(t *testing.T) {
	dir := t.TempDir()
	input := buildCSV(t,
		[2]string{"0xsolar", payload(t, climateRound, solarAddr, "Solar Commons")},
		[2]string{"0xguild", payload(t, ossRound, guildAddr, "Protocol Guild")},
	)

	core, logs := observer.New(zap.InfoLevel)
	d := New(testMapper(), Options{
		OutputDir: dir,
		Overrides: override.Table{"Solar Commons": "community solar energy"},
		Logger:    zap.New(core),
	})

	res, err := d.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, 1, res.Overridden)
	assert.Equal(t, 1, res.Diagnostics.Count(diagnostic.CodeOverrideApplied))
	assert.Equal(t, 1, logs.FilterMessage("Updating work scope").Len())

	var solar metadata.Record

	data, err := os.ReadFile(filepath.Join(dir, "solarcommons.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &solar))
	assert.Equal(t, []any{"community solar energy"}, solar.Hypercert.WorkScope.Value)
	assert.Equal(t, "community solar energy", solar.Hypercert.WorkScope.DisplayValue)

	var guild metadata.Record

	data, err = os.ReadFile(filepath.Join(dir, "protocolguild.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &guild))
	assert.Equal(t, []any{"Protocol Guild"}, guild.Hypercert.WorkScope.Value)
	assert.Equal(t, "Protocol Guild", guild.Hypercert.WorkScope.DisplayValue)
}

func TestRun_DoubleEncodedPayload(t *testing.T) {
	dir := t.TempDir()

	encoded, err := json.Marshal(payload(t, climateRound, solarAddr, "Solar Commons"))
	require.NoError(t, err)

	input := buildCSV(t, [2]string{"0xsolar", string(encoded)})

	res, err := New(testMapper(), Options{OutputDir: dir}).Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
}

func TestRun_SlugCollisionLastWins(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			dir := t.TempDir()

			var rows []Row
			for i := range 8 {
				rows = append(rows, Row{
					Line:      i + 2,
					ProjectID: fmt.Sprintf("p%d", i),
					Payload:   payload(t, climateRound, solarAddr, "Solar Commons"),
				})
			}

			res, err := New(testMapper(), Options{OutputDir: dir, Workers: workers}).Process(context.Background(), rows)
			require.NoError(t, err)
			assert.Equal(t, 8, res.Written)
			assert.Equal(t, []string{"solarcommons.json"}, listJSON(t, dir))

			data, err := os.ReadFile(filepath.Join(dir, "solarcommons.json"))
			require.NoError(t, err)
			assert.Contains(t, string(data), "/p7-"+climateRound)
		})
	}
}

func TestProcess_ParsedPayload(t *testing.T) {
	dir := t.TempDir()

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload(t, climateRound, solarAddr, "Solar Commons")), &parsed))

	res, err := New(testMapper(), Options{OutputDir: dir}).Process(context.Background(),
		[]Row{{Line: 1, ProjectID: "0xsolar", Payload: parsed}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	var rows [][2]string

	for i := range 20 {
		title := "Protocol Guild"
		if i%3 == 0 {
			title = "Solar Commons"
		}

		round, addr := ossRound, guildAddr
		if title == "Solar Commons" {
			round, addr = climateRound, solarAddr
		}

		if i%5 == 0 {
			title += " (unlisted)"
		}

		rows = append(rows, [2]string{"0x" + strings.Repeat("a", i+1), payload(t, round, addr, title)})
	}

	input := buildCSV(t, rows...)

	seqDir, parDir := t.TempDir(), t.TempDir()

	seq, err := New(testMapper(), Options{OutputDir: seqDir, Workers: 1}).Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	par, err := New(testMapper(), Options{OutputDir: parDir, Workers: 4}).Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, seq.Written, par.Written)
	assert.Equal(t, seq.Rejected, par.Rejected)
	assert.Equal(t, listJSON(t, seqDir), listJSON(t, parDir))
	assert.Equal(t, seq.Diagnostics.Warnings, par.Diagnostics.Warnings)
}

func TestRun_MissingColumns(t *testing.T) {
	_, err := New(testMapper(), Options{OutputDir: t.TempDir()}).
		Run(context.Background(), strings.NewReader("project_id,payload\n1,{}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ColumnIPFSData)
}

func TestRun_EmptyInput(t *testing.T) {
	res, err := New(testMapper(), Options{OutputDir: t.TempDir()}).Run(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)
	assert.Equal(t, "Created metadata for 0 projects.", res.Summary())
}

func TestRun_MalformedCSVRow(t *testing.T) {
	dir := t.TempDir()
	input := "project_id,ipfs_data\n" +
		"0x1,\"broken\"row\n"
	input += buildCSV(t, [2]string{"0xsolar", payload(t, climateRound, solarAddr, "Solar Commons")})[len("project_id,ipfs_data\n"):]

	res, err := New(testMapper(), Options{OutputDir: dir}).Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, diagnostic.CodeParseError, res.Diagnostics.Errors[0].Code)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "applications.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte(buildCSV(t, [2]string{"0xsolar", payload(t, climateRound, solarAddr, "Solar Commons")})), 0o644))

	res, err := New(testMapper(), Options{OutputDir: dir}).RunFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)

	_, err = New(testMapper(), Options{OutputDir: dir}).RunFile(context.Background(), filepath.Join(dir, "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_MissingOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	input := buildCSV(t, [2]string{"0xsolar", payload(t, climateRound, solarAddr, "Solar Commons")})

	res, err := New(testMapper(), Options{OutputDir: dir}).Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Written)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, diagnostic.CodeWriteError, res.Diagnostics.Errors[0].Code)
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []Row{{Line: 2, ProjectID: "0x1", Payload: payload(t, climateRound, solarAddr, "Solar Commons")}}

	_, err := New(testMapper(), Options{OutputDir: t.TempDir()}).Process(ctx, rows)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "written", OutcomeWritten.String())
	assert.Equal(t, "rejected", OutcomeRejected.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
