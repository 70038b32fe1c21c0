package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/satchel/internal/game/inventory"
)

// run executes the root command with args against a fresh flag state.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	showEmpty, findKey, findValue, findWhere = false, "", "", ""
	require.NoError(t, removeCmd.Flags().Set("item", "false"))
	removeCmd.Flags().Lookup("item").Changed = false
	findCmd.Flags().Lookup("value").Changed = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func bag(t *testing.T, capacity string) []string {
	t.Helper()
	t.Setenv("SATCHEL_LOGGING_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "bag.txt")
	return []string{"--file", path, "--capacity", capacity}
}

func readBag(t *testing.T, flags []string) string {
	t.Helper()
	data, err := os.ReadFile(flags[1])
	require.NoError(t, err)
	return string(data)
}

func TestCLI_AddShowRemove(t *testing.T) {
	flags := bag(t, "3")

	out, err := run(t, append([]string{"add", "name=potion", "count=3"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `{"name": "potion", "count": "3"}`)

	_, err = run(t, append([]string{"add", `{"name": "sword"}`}, flags...)...)
	require.NoError(t, err)

	out, err = run(t, append([]string{"show"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "2/3 slots used, 1 empty")

	_, err = run(t, append([]string{"remove", "0"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "\n{\"name\": \"sword\"}\n\n", readBag(t, flags))

	_, err = run(t, append([]string{"remove", "0"}, flags...)...)
	assert.ErrorIs(t, err, inventory.ErrSlotEmpty)
}

func TestCLI_RemoveByValue(t *testing.T) {
	flags := bag(t, "2")
	_, err := run(t, append([]string{"set", "1", "name=potion"}, flags...)...)
	require.NoError(t, err)

	_, err = run(t, append([]string{"remove", "--item", "name=potion"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "\n\n", readBag(t, flags))

	_, err = run(t, append([]string{"remove", "--item", "name=potion"}, flags...)...)
	assert.ErrorIs(t, err, inventory.ErrNoSuchItem)
}

func TestCLI_AddWhenFull(t *testing.T) {
	flags := bag(t, "1")
	_, err := run(t, append([]string{"add", "name=a"}, flags...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"add", "name=b"}, flags...)...)
	assert.ErrorIs(t, err, inventory.ErrFull)
	assert.Equal(t, "{\"name\": \"a\"}\n", readBag(t, flags))
}

func TestCLI_SortAndFind(t *testing.T) {
	flags := bag(t, "4")
	for _, lvl := range []string{"10", "2", "7"} {
		_, err := run(t, append([]string{"add", "lvl=" + lvl}, flags...)...)
		require.NoError(t, err)
	}
	_, err := run(t, append([]string{"remove", "1"}, flags...)...)
	require.NoError(t, err)

	_, err = run(t, append([]string{"sort", "lvl"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "{\"lvl\": \"7\"}\n{\"lvl\": \"10\"}\n\n\n", readBag(t, flags))

	out, err := run(t, append([]string{"find", "--where", "tonumber(item.lvl) > 8"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `{"lvl": "10"}`)
	assert.NotContains(t, out, `{"lvl": "7"}`)

	out, err = run(t, append([]string{"find", "--key", "lvl"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `{"lvl": "7"}`)

	_, err = run(t, append([]string{"find"}, flags...)...)
	assert.Error(t, err)
}

func TestCLI_SortMixedTypes(t *testing.T) {
	flags := bag(t, "2")
	_, err := run(t, append([]string{"add", "lvl=5"}, flags...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"add", "lvl=epic"}, flags...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"sort", "lvl"}, flags...)...)
	assert.ErrorIs(t, err, inventory.ErrIncomparableTypes)
}

func TestCLI_ResizeAndClear(t *testing.T) {
	flags := bag(t, "3")
	_, err := run(t, append([]string{"set", "0", "name=potion"}, flags...)...)
	require.NoError(t, err)

	out, err := run(t, append([]string{"resize", "1"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1/1 slots used")
	assert.Equal(t, "{\"name\": \"potion\"}\n", readBag(t, flags))

	out, err = run(t, append([]string{"clear"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 items")
}

func TestCLI_ReadOnlyCommandsLeaveFileAlone(t *testing.T) {
	flags := bag(t, "3")
	_, err := run(t, append([]string{"set", "2", "name=potion"}, flags...)...)
	require.NoError(t, err)
	want := "\n\n{\"name\": \"potion\"}\n"
	require.Equal(t, want, readBag(t, flags))

	narrow := []string{flags[0], flags[1], "--capacity", "1"}
	out, err := run(t, append([]string{"show"}, narrow...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "0/1 slots used")
	_, err = run(t, append([]string{"get", "0"}, narrow...)...)
	require.NoError(t, err)
	_, err = run(t, append([]string{"find", "--key", "name"}, narrow...)...)
	require.NoError(t, err)

	assert.Equal(t, want, readBag(t, flags))
}

func TestCLI_ShowMissingFileDoesNotCreateIt(t *testing.T) {
	flags := bag(t, "2")
	_, err := run(t, append([]string{"show"}, flags...)...)
	require.NoError(t, err)
	_, err = os.Stat(flags[1])
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_Kit(t *testing.T) {
	flags := bag(t, "3")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "starter.yaml"), []byte("id: starter\nitems:\n  - name: potion\n  - name: rope\n"), 0644))
	t.Setenv("SATCHEL_INVENTORY_KITS_DIR", dir)

	_, err := run(t, append([]string{"kit", "starter"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "{\"name\": \"potion\"}\n{\"name\": \"rope\"}\n\n", readBag(t, flags))

	_, err = run(t, append([]string{"kit", "missing"}, flags...)...)
	assert.Error(t, err)
}

func TestCLI_InvalidItemArgs(t *testing.T) {
	flags := bag(t, "1")
	_, err := run(t, append([]string{"add", "noequals"}, flags...)...)
	assert.Error(t, err)
	_, err = run(t, append([]string{"get", "x"}, flags...)...)
	assert.Error(t, err)
	_, err = run(t, append([]string{"get", "5"}, flags...)...)
	assert.ErrorIs(t, err, inventory.ErrOutOfRange)
}
