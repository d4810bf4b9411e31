package main

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedronavarrovera/amo/codec"
	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/simulation"
)

func fourPartyCode(t *testing.T) string {
	t.Helper()
	nw, err := codec.Decode([]byte(fourPartyJSON))
	require.NoError(t, err)
	code, err := codec.EncodeBase64(nw, codec.FormList)
	require.NoError(t, err)

	return code
}

func TestAnalyzeCmd(t *testing.T) {
	path := writeTemp(t, "network.json", fourPartyJSON)

	out, err := executeCommand([]string{"analyze", path})
	require.NoError(t, err)
	assert.Contains(t, out, "Debt Analysis")
	assert.Contains(t, out, "PERSON")
	assert.Contains(t, out, "Pedro → Pilar → Andrea → David → Pedro")
	assert.Contains(t, out, "Pilar should pay Pedro → 10")
}

func TestAnalyzeCmd_Sources(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		out, err := executeCommandWithIn([]string{"analyze"}, fourPartyJSON)
		require.NoError(t, err)
		assert.Contains(t, out, "Debt Cycles")
	})

	t.Run("code flag", func(t *testing.T) {
		out, err := executeCommand([]string{"analyze", "--code", fourPartyCode(t)})
		require.NoError(t, err)
		assert.Contains(t, out, "Debt Cycles")
	})

	t.Run("code on stdin", func(t *testing.T) {
		out, err := executeCommandWithIn([]string{"analyze", "-"}, fourPartyCode(t)+"\n")
		require.NoError(t, err)
		assert.Contains(t, out, "Debt Cycles")
	})
}

func TestAnalyzeCmd_Invalid(t *testing.T) {
	_, err := executeCommandWithIn([]string{"analyze"}, `{"matrix": [[0, -1], [0, 0]]}`)
	assert.ErrorIs(t, err, debtmatrix.ErrValidation)

	_, err = executeCommandWithIn([]string{"analyze"}, "")
	assert.Error(t, err)
}

func TestPathCmd(t *testing.T) {
	path := writeTemp(t, "network.json", fourPartyJSON)

	out, err := executeCommand([]string{"path", path, "--from", "Pedro", "--to", "Andrea"})
	require.NoError(t, err)
	assert.Equal(t, "Andrea: 30 (Pedro → Pilar → Andrea)\n", out)

	out, err = executeCommand([]string{"path", path, "--from", "Pedro", "--max-distance", "30"})
	require.NoError(t, err)
	assert.Equal(t, "Pilar: 10 (Pedro → Pilar)\nAndrea: 30 (Pedro → Pilar → Andrea)\nDavid: unreachable\n", out)

	_, err = executeCommand([]string{"path", path})
	assert.ErrorContains(t, err, "--from is required")

	_, err = executeCommand([]string{"path", path, "--from", "Nobody"})
	assert.ErrorIs(t, err, debtmatrix.ErrNodeNotFound)
}

func TestCycleCmd(t *testing.T) {
	path := writeTemp(t, "network.json", fourPartyJSON)

	out, err := executeCommand([]string{"cycle", path, "--from", "Pedro", "--to", "Pilar"})
	require.NoError(t, err)
	assert.Contains(t, out, "Cycle: Pedro → Pilar → Andrea → David → Pedro\n")
	assert.Contains(t, out, "Bottleneck: 10\n")
	assert.Contains(t, out, "Pilar could forgive Pedro → 10")

	out, err = executeCommand([]string{"cycle", path, "--from", "Pedro", "--to", "Pilar", "--message"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Subject: Suggested Condonations to Cancel Debt Cycle\n"))

	_, err = executeCommand([]string{"cycle", path, "--from", "Pilar", "--to", "Pedro"})
	assert.ErrorIs(t, err, cycle.ErrNoDirectEdge)
}

func TestSettleCmd(t *testing.T) {
	path := writeTemp(t, "network.json", fourPartyJSON)

	t.Run("net balance", func(t *testing.T) {
		out, err := executeCommand([]string{"settle", path})
		require.NoError(t, err)
		assert.Equal(t, "Pilar should pay Pedro → 10\nAndrea should pay Pedro → 10\nDavid should pay Pedro → 10\n", out)
	})

	t.Run("apply shortest back", func(t *testing.T) {
		out, err := executeCommand([]string{"settle", path, "--from", "Pedro", "--to", "Pilar", "--form", "matrix"})
		require.NoError(t, err)
		assert.Equal(t, "[[0,0,0,0],[0,0,10,0],[0,0,0,20],[30,0,0,0]]\n", out)
	})

	t.Run("apply ring", func(t *testing.T) {
		out, err := executeCommand([]string{"settle", path, "--ring", "David,Pedro,Pilar,Andrea", "--base64"})
		require.NoError(t, err)
		nw, err := codec.DecodeBase64(strings.TrimSpace(out))
		require.NoError(t, err)
		assert.Equal(t, [][]int64{{0, 0, 0, 0}, {0, 0, 10, 0}, {0, 0, 0, 20}, {30, 0, 0, 0}}, nw.Matrix.Rows())
	})

	t.Run("half pair", func(t *testing.T) {
		_, err := executeCommand([]string{"settle", path, "--from", "Pedro"})
		assert.ErrorContains(t, err, "must be given together")
	})
}

func TestMergeCmd(t *testing.T) {
	a := writeTemp(t, "a.json", `{"nodes":["A0","A1"],"matrix":[[0,3],[4,0]]}`)
	b := writeTemp(t, "b.json", `{"nodes":["B0","B1"],"matrix":[[0,1]]}`)

	out, err := executeCommand([]string{"merge", a, b})
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":["A0","A1","B0","B1"],"matrix":[[0,3,1,0],[4,0,0,0],[0,0,0,1],[0,0,0,0]]}`+"\n", out)

	_, err = executeCommand([]string{"merge", a, b, "--autopad=false"})
	assert.ErrorIs(t, err, debtmatrix.ErrValidation)

	codeA := fourPartyCode(t)
	out, err = executeCommand([]string{"merge", "--code-a", codeA, "--code-b", codeA, "--form", "matrix"})
	require.NoError(t, err)
	var rows [][]int64
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 8)
	assert.EqualValues(t, 1, rows[0][4])

	_, err = executeCommand([]string{"merge", a})
	assert.Error(t, err)
}

func TestEncodeDecodeCmd(t *testing.T) {
	path := writeTemp(t, "network.json", fourPartyJSON)

	code, err := executeCommand([]string{"encode", path})
	require.NoError(t, err)
	assert.Equal(t, fourPartyCode(t)+"\n", code)

	out, err := executeCommand([]string{"decode", strings.TrimSpace(code)})
	require.NoError(t, err)
	assert.Equal(t, fourPartyJSON+"\n", out)

	out, err = executeCommandWithIn([]string{"decode", "--form", "map"}, code)
	require.NoError(t, err)
	assert.Contains(t, out, `"nodes":{"0":"Pedro","1":"Pilar","2":"Andrea","3":"David"}`)

	_, err = executeCommand([]string{"decode", "not base64!"})
	assert.ErrorIs(t, err, codec.ErrSyntax)
}

func TestSimulateCmd(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "records.jsonl")
	metrics := filepath.Join(dir, "amo.prom")

	_, err := executeCommand([]string{
		"simulate", "--trials", "3", "--size", "5", "--target", "4", "--seed", "7",
		"--workers", "2", "-o", records, "--metrics-file", metrics,
	})
	require.NoError(t, err)

	f, err := os.Open(records)
	require.NoError(t, err)
	defer f.Close()

	var got []simulation.TransactionRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec simulation.TransactionRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		got = append(got, rec)
	}
	require.NoError(t, sc.Err())
	require.NotEmpty(t, got)
	assert.Equal(t, 0, got[0].Trial)
	assert.Equal(t, 2, got[len(got)-1].Trial)
	assert.Equal(t, simulation.KindSingleTarget, got[len(got)-1].Kind)
	assert.Equal(t, simulation.Currency, got[0].Currency)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "amo_simulation_trials_total 3")
}

func TestSimulateCmd_BadParams(t *testing.T) {
	_, err := executeCommand([]string{"simulate", "--size", "5", "--target", "9"})
	assert.ErrorIs(t, err, simulation.ErrBadParams)
}

func TestConfigFlag(t *testing.T) {
	cfgPath := writeTemp(t, "amo.yaml", "merge:\n  allow_autopad: false\n")
	a := writeTemp(t, "a.json", `{"nodes":["A0"],"matrix":[[0]]}`)
	b := writeTemp(t, "b.json", `{"nodes":["B0","B1"],"matrix":[[0,1]]}`)

	_, err := executeCommand([]string{"--config", cfgPath, "merge", a, b})
	assert.ErrorIs(t, err, debtmatrix.ErrValidation)

	// The flag wins over the file.
	_, err = executeCommand([]string{"--config", cfgPath, "merge", a, b, "--autopad"})
	assert.NoError(t, err)
}
