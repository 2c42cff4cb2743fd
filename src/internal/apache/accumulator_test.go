package apache

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/homedash/homedash/src/internal/errors"
)

type failingSource string

func (f failingSource) Name() string { return string(f) }

func (f failingSource) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

func TestAccumulator_AppendText(t *testing.T) {
	acc := NewAccumulator(0)
	acc.AppendText("first")
	acc.AppendText("   ")
	acc.AppendText("second")

	assert.Equal(t, "first\n\nsecond", acc.String())
	assert.Equal(t, len("first\n\nsecond"), acc.Len())

	acc.Reset()
	assert.Zero(t, acc.Len())
}

func TestAccumulator_AppendFilesBanners(t *testing.T) {
	acc := NewAccumulator(2)
	acc.AppendText("pasted")

	errs := acc.AppendFiles(context.Background(), []Source{
		TextSource("a.conf", "A"),
		TextSource("b.conf", "B"),
	})
	require.Empty(t, errs)

	want := "pasted\n\n" +
		"# --- Start of a.conf ---\nA\n# --- End of a.conf ---\n\n" +
		"# --- Start of b.conf ---\nB\n# --- End of b.conf ---"
	assert.Equal(t, want, acc.String())
}

func TestAccumulator_OrderIsInputOrder(t *testing.T) {
	var sources []Source
	want := ""
	for _, name := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		sources = append(sources, TextSource(name, name))
		if want != "" {
			want += "\n\n"
		}
		want += banner(name, name)
	}

	acc := NewAccumulator(3)
	require.Empty(t, acc.AppendFiles(context.Background(), sources))
	assert.Equal(t, want, acc.String())
}

func TestAccumulator_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.conf")
	vhost := "<VirtualHost *:80>\nServerName a.local\nProxyPass / http://localhost:3000/\n</VirtualHost>"
	require.NoError(t, os.WriteFile(good, []byte(vhost), 0644))

	acc := NewAccumulator(0)
	errs := acc.AppendFiles(context.Background(), []Source{
		FileSource(filepath.Join(dir, "missing.conf")),
		FileSource(good),
		failingSource("locked.conf"),
	})

	require.Len(t, errs, 2)
	assert.Equal(t, "missing.conf", errs[0].Name)
	assert.Equal(t, "locked.conf", errs[1].Name)
	assert.True(t, errors.Is(errs[0], apperrors.ErrFileRead))
	assert.Equal(t, apperrors.ErrCodeFileRead, apperrors.CodeOf(errs[1]))

	assert.Contains(t, acc.String(), "# --- Start of good.conf ---")
	assert.NotContains(t, acc.String(), "missing.conf")

	res := Extract(acc.String())
	assert.Len(t, res.Candidates, 1)
}

func TestAccumulator_AllFilesFail(t *testing.T) {
	acc := NewAccumulator(0)
	acc.AppendText("kept")

	errs := acc.AppendFiles(context.Background(), []Source{failingSource("x"), failingSource("y")})
	assert.Len(t, errs, 2)
	assert.Equal(t, "kept", acc.String())
}

func TestAccumulator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acc := NewAccumulator(0)
	errs := acc.AppendFiles(ctx, []Source{TextSource("a", "A")})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.Zero(t, acc.Len())
}

func TestAccumulator_InvalidUTF8(t *testing.T) {
	acc := NewAccumulator(0)
	require.Empty(t, acc.AppendFiles(context.Background(), []Source{TextSource("bin", "a\xffb")}))
	assert.Contains(t, acc.String(), "a\uFFFDb")
}
