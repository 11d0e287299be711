package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/backoffice/internal/config"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/store"
	"github.com/JonMunkholm/backoffice/internal/tableview"
)

func testService() *core.Service {
	mem := store.NewMemory(store.MockDataset(42, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	return core.NewService(mem, nil, core.Options{
		PageSize:        10,
		PageSizes:       []int{5, 10, 25},
		ResetPageOnSort: true,
	})
}

func TestPrintTablePage(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	t.Run("default sort", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printTablePage(ctx, &buf, svc, "banks", pageRequest{page: 1}))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "Banks\n"))
		assert.Less(t, strings.Index(out, "Albion Savings"), strings.Index(out, "Nordic Trust Bank"))
		assert.Contains(t, out, "1–6 of 6 · page 1 of 1")
	})

	t.Run("descending", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printTablePage(ctx, &buf, svc, "banks", pageRequest{sort: "name", desc: true, page: 1}))
		out := buf.String()
		assert.Less(t, strings.Index(out, "Nordic Trust Bank"), strings.Index(out, "Albion Savings"))
		assert.Contains(t, out, "▼")
	})

	t.Run("second page", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printTablePage(ctx, &buf, svc, "banks", pageRequest{page: 2, size: 5}))
		assert.Contains(t, buf.String(), "6–6 of 6 · page 2 of 2")
	})

	t.Run("no matches", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printTablePage(ctx, &buf, svc, "archive", pageRequest{page: 1, search: "zzzz-no-match-qqqq"}))
		assert.Contains(t, buf.String(), "No records found")
	})
}

func TestPrintTablePageErrors(t *testing.T) {
	svc := testService()
	ctx := context.Background()
	var buf bytes.Buffer

	assert.ErrorIs(t, printTablePage(ctx, &buf, svc, "ledger", pageRequest{page: 1}), core.ErrTableNotFound)
	assert.ErrorIs(t, printTablePage(ctx, &buf, svc, "banks", pageRequest{page: 1, size: 7}), tableview.ErrInvalidPageSize)
	assert.ErrorIs(t, printTablePage(ctx, &buf, svc, "banks", pageRequest{page: 1, sort: "iban"}), tableview.ErrUnknownColumn)
}

func TestPrintTableList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTableList(&buf))
	out := buf.String()
	for _, key := range []string{"unallocated_deposits", "transactions", "withdrawal_batches", "archive", "banks", "beneficiaries", "fee_structures", "audit_log"} {
		assert.Contains(t, out, key)
	}
}

func TestServiceOptions(t *testing.T) {
	cfg := &config.Config{Table: config.TableConfig{
		DefaultPageSize: 25,
		PageSizes:       []int{10, 25},
		ResetPageOnSort: false,
		EditSwitch:      "discard",
		Locale:          "da",
	}}
	opts, err := serviceOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, 25, opts.PageSize)
	assert.Equal(t, tableview.SwitchDiscard, opts.EditSwitch)
	assert.Equal(t, language.Danish, opts.Locale)
	assert.False(t, opts.ResetPageOnSort)

	cfg.Table.EditSwitch = "keep"
	_, err = serviceOptions(cfg)
	assert.Error(t, err)
}

func TestRootCommandTable(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")
	t.Setenv("TABLE_DEFAULT_PAGE_SIZE", "")
	t.Setenv("LOG_LEVEL", "")

	env := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(env, []byte("TABLE_DEFAULT_PAGE_SIZE=5\nLOG_LEVEL=error\n"), 0o644))

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--env-file", env, "table", "banks"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "1–5 of 6 · page 1 of 2")
}

func TestRootCommandRejectsBadConfig(t *testing.T) {
	t.Setenv("TABLE_EDIT_SWITCH", "sometimes")

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "tables"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TABLE_EDIT_SWITCH")
}
