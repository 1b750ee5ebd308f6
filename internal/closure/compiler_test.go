package closure

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dshills/closurec/internal/cache"
	"github.com/dshills/closurec/internal/javaenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubCompiler returns a Compiler whose java executable is a shell
// script running body. The script receives the real compiler arguments,
// so $4 is the cached input path.
func newStubCompiler(t *testing.T, body string, opts Options) (*Compiler, *cache.Cache) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script java stub requires a Unix shell")
	}

	javaDir := t.TempDir()
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(javaDir, "java"), []byte(script), 0o755))

	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), 0)
	require.NoError(t, err)

	if opts.JarPath == "" {
		opts.JarPath = "/assets/" + JarName
	}
	comp, err := New(c, javaenv.NewLocator(javaenv.Static("test", javaDir)), opts)
	require.NoError(t, err)
	return comp, c
}

func TestCheck_EmptyStderrIsValid(t *testing.T) {
	comp, _ := newStubCompiler(t, `exit 0`, Options{})

	ok, diags, err := comp.Check(context.Background(), "var a = 1;")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, diags)
}

func TestCheck_WhitespaceStderrIsValid(t *testing.T) {
	comp, _ := newStubCompiler(t, `printf '  \n\t\n' >&2`, Options{})

	ok, diags, err := comp.Check(context.Background(), "var a = 1;")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "  \n\t\n", diags)
}

func TestCheck_StderrIsInvalid(t *testing.T) {
	comp, _ := newStubCompiler(t, `printf 'W' >&2`, Options{})

	ok, diags, err := comp.Check(context.Background(), "var a = 1;")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "W", diags)
}

func TestCheck_NonZeroExitIsNotAnError(t *testing.T) {
	comp, _ := newStubCompiler(t, `printf 'boom\n' >&2; exit 1`, Options{})

	ok, diags, err := comp.Check(context.Background(), "var a = ;")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "boom\n", diags)
}

func TestOptimize_Passthrough(t *testing.T) {
	comp, _ := newStubCompiler(t, `printf 'X'; printf 'W' >&2`, Options{})

	out, diags, err := comp.Optimize(context.Background(), "var a = 1;")
	require.NoError(t, err)
	assert.Equal(t, "X", out)
	assert.Equal(t, "W", diags)
}

func TestOptimize_ReadsCachedInput(t *testing.T) {
	comp, c := newStubCompiler(t, `cat "$4"`, Options{})
	src := "function f(a) {\n  return a + 1;\n}\n"

	out, _, err := comp.Optimize(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, src, out)

	_, err = os.Stat(c.EntryPath(src))
	assert.NoError(t, err, "source should be cached")
}

func TestArgs_PassedWithoutShell(t *testing.T) {
	comp, c := newStubCompiler(t, `printf '%s\n' "$@"`, Options{JarPath: "/opt/closure dir/" + JarName})
	src := "var a = 1;"

	out, _, err := comp.Optimize(context.Background(), src)
	require.NoError(t, err)
	want := []string{
		"-jar", "/opt/closure dir/" + JarName,
		"--js", c.EntryPath(src),
		"-O", LevelWhitespaceOnly,
		"-W", WarningDefault,
	}
	assert.Equal(t, want, strings.Split(strings.TrimSuffix(out, "\n"), "\n"))
	assert.Equal(t, want, comp.Args(LevelWhitespaceOnly, c.EntryPath(src)))
}

func TestCheck_UsesAdvancedLevel(t *testing.T) {
	comp, _ := newStubCompiler(t, `printf '%s\n' "$6" >&2`, Options{})

	_, diags, err := comp.Check(context.Background(), "var a = 1;")
	require.NoError(t, err)
	assert.Equal(t, LevelAdvanced+"\n", diags)
}

func TestRun_Timeout(t *testing.T) {
	comp, _ := newStubCompiler(t, `exec sleep 30`, Options{Timeout: 200 * time.Millisecond})

	start := time.Now()
	_, _, err := comp.Check(context.Background(), "var a = 1;")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 10*time.Second, "caller should not hang")
}

func TestRun_ParentContextCanceled(t *testing.T) {
	comp, _ := newStubCompiler(t, `exec sleep 30`, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	_, _, err := comp.Optimize(ctx, "var a = 1;")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRun_JavaNotFound(t *testing.T) {
	c, err := cache.New(t.TempDir(), 0)
	require.NoError(t, err)
	comp, err := New(c, javaenv.NewLocator(), Options{JarPath: JarName})
	require.NoError(t, err)

	_, _, err = comp.Check(context.Background(), "var a = 1;")
	assert.ErrorIs(t, err, javaenv.ErrNotFound)
}

func TestRun_ParsesAndRelabelsDiagnostics(t *testing.T) {
	body := `printf '%s:3:5: WARNING - [JSC_UNREACHABLE_CODE] unreachable code\n' "$4" >&2
printf '  3|   return; x();\n' >&2
printf '0 error(s), 1 warning(s)\n' >&2
exit 0`
	comp, c := newStubCompiler(t, body, Options{})
	src := "function f(){ return; x(); }"

	res, err := comp.Run(context.Background(), ModeCheck, "app.js", src)
	require.NoError(t, err)

	assert.Equal(t, "app.js", res.Input)
	assert.Equal(t, c.EntryPath(src), res.CachePath)
	assert.False(t, res.Valid)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, "app.js", d.Path)
	assert.Equal(t, 3, d.Line)
	assert.Equal(t, 5, d.Column)
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, "JSC_UNREACHABLE_CODE", d.Code)
	assert.Empty(t, res.Output, "check results carry no output")
}

func TestRun_UnformattedStderrBecomesDiagnostic(t *testing.T) {
	comp, _ := newStubCompiler(t, `printf 'Error: Unable to access jarfile x.jar\n' >&2; exit 1`, Options{})

	res, err := comp.Run(context.Background(), ModeOptimize, "lib.js", "var a;")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, SeverityError, res.Diagnostics[0].Severity)
	assert.Equal(t, "Error: Unable to access jarfile x.jar", res.Diagnostics[0].Message)
}

func TestRun_OptimizeKeepsOutput(t *testing.T) {
	comp, _ := newStubCompiler(t, `printf 'var a=1;'`, Options{})

	res, err := comp.Run(context.Background(), ModeOptimize, "a.js", "var a = 1;")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "var a=1;", res.Output)
	assert.Empty(t, res.Diagnostics)
}

func TestNew_Defaults(t *testing.T) {
	comp, err := New(nil, nil, Options{})
	require.NoError(t, err)

	opts := comp.Options()
	assert.Equal(t, LevelAdvanced, opts.CheckLevel)
	assert.Equal(t, LevelWhitespaceOnly, opts.OptimizeLevel)
	assert.Equal(t, WarningDefault, opts.WarningLevel)
	assert.Equal(t, time.Minute, opts.Timeout)
	assert.Equal(t, JarName, filepath.Base(opts.JarPath))
	assert.Equal(t, "Assets", filepath.Base(filepath.Dir(opts.JarPath)))
}

func TestNew_InvalidLevels(t *testing.T) {
	_, err := New(nil, nil, Options{CheckLevel: "FAST"})
	assert.Error(t, err)
	_, err = New(nil, nil, Options{OptimizeLevel: "tiny"})
	assert.Error(t, err)
	_, err = New(nil, nil, Options{WarningLevel: "LOUD"})
	assert.Error(t, err)
}
