package materialize_test

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/ezerfernandes/mdextract/internal/manifest"
	"github.com/ezerfernandes/mdextract/internal/materialize"
	"github.com/ezerfernandes/mdextract/internal/mdcode"
	"github.com/liamg/memoryfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string {
	return &s
}

var blocks = mdcode.Blocks{
	{Language: str("toml"), Filename: str("Cargo.toml"), Content: "[package]\nname = \"crowdfunding\"\n"},
	{Language: str("rust"), Content: "// not named\n"},
	{Language: str("rust"), Filename: str("crowdfunding.rs"), Content: "#![no_std]\n\nfn main() {}\n"},
	{Filename: str("notes.txt"), Content: "no language\n"},
}

type recorder []string

func (r *recorder) status(format string, args ...interface{}) {
	*r = append(*r, fmt.Sprintf(format, args...))
}

func TestRun(t *testing.T) {
	t.Parallel()

	fsys := memoryfs.New()
	m := &manifest.Manifest{
		Documents: []string{"p1.md"},
		Dirs:      []string{"crowdfunding/src", "crowdfunding/scenarios"},
		Targets: []manifest.Target{
			{Block: "Cargo.toml", Path: "crowdfunding/Cargo.toml"},
			{Block: "crowdfunding.rs", Path: "crowdfunding/src/crowdfunding.rs"},
			{Block: "notes.txt", Path: "notes/notes.txt"},
		},
	}

	var log recorder

	require.NoError(t, materialize.Run(fsys, m, blocks, log.status))

	data, err := fs.ReadFile(fsys, "crowdfunding/Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, blocks[0].Content, string(data))

	data, err = fs.ReadFile(fsys, "crowdfunding/src/crowdfunding.rs")
	require.NoError(t, err)
	assert.Equal(t, blocks[2].Content, string(data))

	data, err = fs.ReadFile(fsys, "notes/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, blocks[3].Content, string(data))

	info, err := fs.Stat(fsys, "crowdfunding/scenarios")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Equal(t, []string{
		"extracted crowdfunding/Cargo.toml, language: toml\n",
		"extracted crowdfunding/src/crowdfunding.rs, language: rust\n",
		"extracted notes/notes.txt, language: unknown\n",
	}, []string(log))
}

func TestRunMissingBlock(t *testing.T) {
	t.Parallel()

	fsys := memoryfs.New()
	m := &manifest.Manifest{
		Documents: []string{"p1.md"},
		Targets: []manifest.Target{
			{Block: "Cargo.toml", Path: "Cargo.toml"},
			{Block: "lib.rs", Path: "src/lib.rs"},
			{Block: "crowdfunding.rs", Path: "src/crowdfunding.rs"},
		},
	}

	var log recorder

	err := materialize.Run(fsys, m, blocks, log.status)
	require.ErrorIs(t, err, mdcode.ErrBlockNotFound)
	assert.Contains(t, err.Error(), "lib.rs")
	assert.Len(t, log, 1)

	_, err = fs.ReadFile(fsys, "src/crowdfunding.rs")
	require.Error(t, err, "targets after the missing block are not written")
}

func TestWriteRegion(t *testing.T) {
	t.Parallel()

	fsys := memoryfs.New()
	require.NoError(t, fsys.WriteFile("lib.rs", []byte("// header\n// #region contract\nold\n// #endregion\n"), 0o644))

	target := manifest.Target{Block: "crowdfunding.rs", Path: "lib.rs", Region: "contract"}
	require.NoError(t, materialize.Write(fsys, target, blocks[2]))

	data, err := fs.ReadFile(fsys, "lib.rs")
	require.NoError(t, err)
	assert.Equal(t, "// header\n// #region contract\n#![no_std]\n\nfn main() {}\n// #endregion\n", string(data))

	target.Path = "missing.rs"
	require.Error(t, materialize.Write(fsys, target, blocks[2]))

	target.Path = "lib.rs"
	target.Region = "other"
	require.Error(t, materialize.Write(fsys, target, blocks[2]))
}

func TestOSFS(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fsys := materialize.OSFS(root)

	target := manifest.Target{Block: "Cargo.toml", Path: "crowdfunding/Cargo.toml"}
	require.NoError(t, materialize.Write(fsys, target, blocks[0]))

	data, err := os.ReadFile(filepath.Join(root, "crowdfunding", "Cargo.toml"))
	require.NoError(t, err)
	assert.Equal(t, blocks[0].Content, string(data))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	ok := &manifest.Manifest{
		Dirs:    []string{"crowdfunding/src", "."},
		Targets: []manifest.Target{{Block: "a", Path: "src/a.rs"}},
	}
	require.NoError(t, materialize.Check(ok))

	for _, path := range []string{"../a.rs", "/etc/a.rs", "src/../../a.rs"} {
		bad := &manifest.Manifest{Targets: []manifest.Target{{Block: "a", Path: path}}}
		require.ErrorIs(t, materialize.Check(bad), materialize.ErrUnsafePath, path)
	}

	for _, dir := range []string{"../../escaped", "/tmp/escaped", "src/../.."} {
		bad := &manifest.Manifest{
			Dirs:    []string{"src", dir},
			Targets: []manifest.Target{{Block: "a", Path: "src/a.rs"}},
		}
		err := materialize.Check(bad)
		require.ErrorIs(t, err, materialize.ErrUnsafePath, dir)
		assert.Contains(t, err.Error(), "dirs")
	}
}
