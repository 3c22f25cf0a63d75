package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spigell/lexnorm/internal/store/storetest"
)

func TestRenderFormats(t *testing.T) {
	v := map[string]any{"job_role": "Welder", "count": 2}

	var js bytes.Buffer
	require.NoError(t, render(&js, outputJSON, v))
	require.Contains(t, js.String(), `"job_role": "Welder"`)

	var ym bytes.Buffer
	require.NoError(t, render(&ym, outputYAML, v))
	require.Contains(t, ym.String(), "job_role: Welder")
	require.Contains(t, ym.String(), "count: 2")

	require.Error(t, render(&bytes.Buffer{}, "xml", v))
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "22"})
	require.NoError(t, err)
	require.Equal(t, []uint{1, 22}, ids)

	_, err = parseIDs([]string{"1", "abc"})
	require.Error(t, err)

	_, err = parseIDs([]string{"0"})
	require.Error(t, err)
}

func TestMapRequiresContentIDBeforeStartup(t *testing.T) {
	// No config, database or API key exists here; the flag check must fail first.
	mapCmd.SetContext(context.Background())
	require.NoError(t, mapCmd.Flags().Set("content-id", "0"))

	err := mapCmd.RunE(mapCmd, nil)
	require.ErrorIs(t, err, errContentIDRequired)
}

func TestCloseDBReleasesHandle(t *testing.T) {
	db := storetest.New(t)
	closeDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.Error(t, sqlDB.Ping())
}
