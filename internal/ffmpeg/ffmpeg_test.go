package ffmpeg

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

// fakeFFmpeg writes an executable shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// copyScript copies the -i input to the last argument.
const copyScript = `in=""; prev=""; out=""
for a in "$@"; do
  if [ "$prev" = "-i" ]; then in="$a"; fi
  prev="$a"; out="$a"
done
printf 'transcoded:' > "$out"
cat "$in" >> "$out"`

func writeClip(t *testing.T, dir string) string {
	t.Helper()
	tmp := filepath.Join(dir, ".output-1234.mp4")
	if err := os.WriteFile(tmp, []byte("mp4v"), 0o644); err != nil {
		t.Fatal(err)
	}
	return tmp
}

func TestBuildArgs(t *testing.T) {
	got := BuildArgs(DefaultParams("in.mp4", "out.mp4"))
	want := []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "level+warning",
		"-i", "in.mp4", "-an",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-preset", "veryfast", "-crf", "23",
		"-movflags", "+faststart",
		"out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgs() =\n%v\nwant\n%v", got, want)
	}
}

func TestBuildArgsStreamCopy(t *testing.T) {
	got := strings.Join(BuildArgs(Params{Input: "a.mp4", Output: "b.mp4", Faststart: true}), " ")
	if want := "-hide_banner -nostdin -y -i a.mp4 -an -c:v copy -movflags +faststart b.mp4"; got != want {
		t.Errorf("BuildArgs() = %q, want %q", got, want)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		line      string
		wantLevel string
		wantMsg   string
	}{
		{"[warning] deprecated pixel format", "warning", "deprecated pixel format"},
		{"[mp4 @ 0x55d5] [error] moov atom not found", "error", "[mp4 @ 0x55d5] moov atom not found"},
		{"frame=  100 fps=0.0", "info", "frame=  100 fps=0.0"},
		{"[libx264 @ 0x1] using cpu capabilities", "info", "[libx264 @ 0x1] using cpu capabilities"},
	}
	for _, tt := range tests {
		level, msg := ParseLogLevel(tt.line)
		if level != tt.wantLevel || msg != tt.wantMsg {
			t.Errorf("ParseLogLevel(%q) = %q, %q, want %q, %q", tt.line, level, msg, tt.wantLevel, tt.wantMsg)
		}
	}
}

func TestLogOutputReturnsLastError(t *testing.T) {
	in := "[info] starting\n[error] first\n\n[mp4 @ 0x1] [fatal] last\n[warning] trailing\n"
	if got := logOutput(quietLogger(), strings.NewReader(in)); got != "[mp4 @ 0x1] last" {
		t.Errorf("logOutput() = %q", got)
	}
}

func TestTranscodePath(t *testing.T) {
	if got, want := transcodePath("/srv/clips/output.mp4"), "/srv/clips/.output.faststart.mp4"; got != want {
		t.Errorf("transcodePath() = %q, want %q", got, want)
	}
	if got, want := transcodePath("output.mp4"), ".output.faststart.mp4"; got != want {
		t.Errorf("transcodePath() = %q, want %q", got, want)
	}
}

func TestFinalizeTranscodes(t *testing.T) {
	dir := t.TempDir()
	tmp := writeClip(t, dir)
	dst := filepath.Join(dir, "output.mp4")

	f := &FaststartFinalizer{Binary: fakeFFmpeg(t, copyScript), Logger: quietLogger()}
	if err := f.Finalize(context.Background(), tmp, dst); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "transcoded:mp4v" {
		t.Errorf("published %q, want transcoded clip", data)
	}
	assertOnly(t, dir, "output.mp4")
}

func TestFinalizeFallsBackWhenFFmpegFails(t *testing.T) {
	dir := t.TempDir()
	tmp := writeClip(t, dir)
	dst := filepath.Join(dir, "output.mp4")

	f := &FaststartFinalizer{Binary: fakeFFmpeg(t, `echo "[error] Unknown encoder 'libx264'" >&2; exit 1`), Logger: quietLogger()}
	if err := f.Finalize(context.Background(), tmp, dst); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "mp4v" {
		t.Errorf("published %q, want clip as recorded", data)
	}
	assertOnly(t, dir, "output.mp4")
}

func TestFinalizeWithoutFFmpeg(t *testing.T) {
	dir := t.TempDir()
	tmp := writeClip(t, dir)
	dst := filepath.Join(dir, "output.mp4")

	f := &FaststartFinalizer{Binary: filepath.Join(dir, "no-such-ffmpeg"), Logger: quietLogger()}
	if f.Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	if err := f.Finalize(context.Background(), tmp, dst); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	assertOnly(t, dir, "output.mp4")
}

func TestFinalizeCancelled(t *testing.T) {
	dir := t.TempDir()
	tmp := writeClip(t, dir)
	dst := filepath.Join(dir, "output.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	f := &FaststartFinalizer{Binary: fakeFFmpeg(t, "exec sleep 5"), Logger: quietLogger()}
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	err := f.Finalize(ctx, tmp, dst)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Finalize() error = %v, want context.Canceled", err)
	}
	assertOnly(t, dir)
}

func TestFinalizeTimeoutFallsBack(t *testing.T) {
	dir := t.TempDir()
	tmp := writeClip(t, dir)
	dst := filepath.Join(dir, "output.mp4")

	f := &FaststartFinalizer{Binary: fakeFFmpeg(t, "exec sleep 5"), Timeout: 100 * time.Millisecond, Logger: quietLogger()}
	if err := f.Finalize(context.Background(), tmp, dst); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	assertOnly(t, dir, "output.mp4")
}

func assertOnly(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	if len(got) != len(names) || (len(names) > 0 && !reflect.DeepEqual(got, names)) {
		t.Errorf("directory holds %v, want %v", got, names)
	}
}
