package clean

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/external"
	"github.com/lakshaymaurya-felt/winsweep/internal/sweep"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

type fakeDisks struct {
	parts []disk.PartitionStat
	free  map[string]uint64
	err   error
}

func (f fakeDisks) Partitions(context.Context) ([]disk.PartitionStat, error) {
	return f.parts, f.err
}

func (f fakeDisks) Usage(_ context.Context, path string) (*disk.UsageStat, error) {
	n, ok := f.free[path]
	if !ok {
		return nil, errors.New("no such drive")
	}
	return &disk.UsageStat{Path: path, Free: n}, nil
}

type fixedClock time.Time

func (c fixedClock) NowUTC() time.Time { return time.Time(c).UTC() }

type sink struct {
	messages []string
	errors   []string
}

func (s *sink) Message(text string) { s.messages = append(s.messages, text) }
func (s *sink) Error(text string)   { s.errors = append(s.errors, text) }

type fakeRunner struct {
	calls []string
	fail  map[string]error
	// onRun simulates the side effect of a command.
	onRun func(name string, args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, name)
	if f.onRun != nil {
		f.onRun(name, args)
	}
	return "", f.fail[name]
}

func write(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
}

func newCleaner(t *testing.T, now time.Time, mode sweep.Mode, runner external.Runner) (*ProfileCleaner, *sweep.Engine, *sink) {
	t.Helper()
	s := &sink{}
	clock := fixedClock(now)
	e, err := sweep.NewEngine(clock, s, sweep.WithMode(mode))
	require.NoError(t, err)
	return NewProfileCleaner(e, clock, s, runner, zerolog.Nop(), 30*config.Day, WithVHDCompaction(true)), e, s
}

// ─── Drives ──────────────────────────────────────────────────────────────────

func TestDrives(t *testing.T) {
	d := fakeDisks{parts: []disk.PartitionStat{
		{Device: `C:`, Mountpoint: `C:`, Fstype: "NTFS", Opts: []string{"rw"}},
		{Device: `D:`, Mountpoint: `D:`, Fstype: "CDFS", Opts: []string{"ro"}},
		{Device: `E:`, Mountpoint: `E:\`, Fstype: "NTFS", Opts: []string{"rw"}},
		{Device: `c:`, Mountpoint: `c:`, Fstype: "NTFS", Opts: []string{"rw"}},
	}}

	roots, err := Drives(context.Background(), d)

	require.NoError(t, err)
	assert.Equal(t, []string{`C:\`, `E:\`}, roots)
}

func TestDrives_Error(t *testing.T) {
	_, err := Drives(context.Background(), fakeDisks{err: errors.New("access denied")})
	require.ErrorContains(t, err, "list partitions")
}

func TestFreeSpaceAndFreed(t *testing.T) {
	before := FreeSpace(context.Background(), fakeDisks{free: map[string]uint64{`C:\`: 100, `E:\`: 50}}, []string{`C:\`, `E:\`, `Z:\`})
	after := FreeSpace(context.Background(), fakeDisks{free: map[string]uint64{`C:\`: 400, `E:\`: 40}}, []string{`C:\`, `E:\`})

	assert.Len(t, before, 2)
	assert.Equal(t, map[string]int64{`C:\`: 300, `E:\`: -10}, Freed(before, after))
}

// ─── Profiles ────────────────────────────────────────────────────────────────

func TestListProfileDirs(t *testing.T) {
	users := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(users, "alice"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(users, "Public"), 0o755))
	write(t, filepath.Join(users, "desktop.ini"), 1)

	dirs, err := listProfileDirs(users)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(users, "alice"), filepath.Join(users, "Public")}, dirs)
}

func TestProfileCleaner_SweepsCachesByAge(t *testing.T) {
	profile := t.TempDir()
	temp := filepath.Join(profile, "AppData", "Local", "Temp", "setup.log")
	download := filepath.Join(profile, "Downloads", "installer.msi")
	write(t, temp, 10)
	write(t, download, 20)

	// Ten days on: past the week for caches, inside the month for Downloads.
	c, e, s := newCleaner(t, time.Now().Add(10*config.Day), sweep.ModeConfirm, &fakeRunner{})

	require.NoError(t, c.Clean(context.Background(), profile))

	assert.NoFileExists(t, temp)
	assert.FileExists(t, download)
	assert.DirExists(t, filepath.Join(profile, "AppData", "Local", "Temp"))
	assert.Empty(t, s.errors)
	assert.Equal(t, sweep.Totals{Items: 1, Bytes: 10}, e.Statistics().Snapshot())
}

func TestProfileCleaner_MonthlyPurge(t *testing.T) {
	tests := []struct {
		name    string
		ahead   time.Duration
		removed bool
	}{
		{"young cache kept", 10 * config.Day, false},
		{"old cache dropped", 40 * config.Day, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := t.TempDir()
			npm := filepath.Join(profile, "AppData", "Roaming", "npm-cache")
			write(t, filepath.Join(npm, "_cacache", "index"), 5)
			// Fresh content does not save the cache; only its creation counts.
			require.NoError(t, os.Chtimes(filepath.Join(npm, "_cacache", "index"), time.Now().Add(tt.ahead), time.Now().Add(tt.ahead)))

			c, _, s := newCleaner(t, time.Now().Add(tt.ahead), sweep.ModeConfirm, &fakeRunner{})
			require.NoError(t, c.Clean(context.Background(), profile))

			assert.Empty(t, s.errors)
			if tt.removed {
				assert.NoDirExists(t, npm)
			} else {
				assert.DirExists(t, npm)
			}
		})
	}
}

func TestProfileCleaner_MonthlyPurgeHonoursDryRun(t *testing.T) {
	profile := t.TempDir()
	nuget := filepath.Join(profile, ".nuget", "packages")
	write(t, filepath.Join(nuget, "pkg", "1.0.0", "pkg.nupkg"), 5)

	c, e, s := newCleaner(t, time.Now().Add(40*config.Day), sweep.ModeUnset, &fakeRunner{})
	require.NoError(t, c.Clean(context.Background(), profile))

	assert.DirExists(t, nuget)
	assert.Contains(t, s.messages, "DryRun: "+nuget)
	assert.Equal(t, int64(4), e.Statistics().Items())
}

func TestProfileCleaner_CompactsDockerVHD(t *testing.T) {
	profile := t.TempDir()
	vhdx := filepath.Join(profile, config.DockerVHD())
	write(t, vhdx, 1000)

	runner := &fakeRunner{
		fail: map[string]error{"net": &external.ExitError{Command: "net start vmms", Code: 2}},
		onRun: func(name string, _ []string) {
			if name == "powershell" {
				require.NoError(t, os.Truncate(vhdx, 400))
			}
		},
	}
	c, e, s := newCleaner(t, time.Now(), sweep.ModeConfirm, runner)

	require.NoError(t, c.Clean(context.Background(), profile))

	assert.Equal(t, []string{"wsl", "net", "powershell"}, runner.calls)
	assert.Empty(t, s.errors)
	assert.Equal(t, int64(600), e.Statistics().Bytes())
}

func TestProfileCleaner_CompactionQuotesProfilePath(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "o'brien")
	vhdx := filepath.Join(profile, config.DockerVHD())
	write(t, vhdx, 10)

	var script string
	runner := &fakeRunner{onRun: func(name string, args []string) {
		if name == "powershell" {
			script = args[len(args)-1]
		}
	}}
	c, _, s := newCleaner(t, time.Now(), sweep.ModeConfirm, runner)

	require.NoError(t, c.Clean(context.Background(), profile))

	assert.Empty(t, s.errors)
	assert.Equal(t, "& {Optimize-VHD -Path '"+strings.ReplaceAll(vhdx, "'", "''")+"' -Mode Full}", script)
	assert.Contains(t, script, "o''brien")
}

func TestPSQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`C:\Users\ann\ext4.vhdx`, `'C:\Users\ann\ext4.vhdx'`},
		{`C:\Users\o'brien`, `'C:\Users\o''brien'`},
		{`'`, `''''`},
		{``, `''`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, psQuote(tt.in), tt.in)
	}
}

func TestProfileCleaner_CompactionFailuresReported(t *testing.T) {
	profile := t.TempDir()
	write(t, filepath.Join(profile, config.DockerVHD()), 10)
	runner := &fakeRunner{fail: map[string]error{
		"wsl":        errors.New("wsl not found"),
		"powershell": &external.ExitError{Command: "powershell", Code: 1},
	}}
	c, e, s := newCleaner(t, time.Now(), sweep.ModeConfirm, runner)

	require.NoError(t, c.Clean(context.Background(), profile))

	require.Len(t, s.errors, 2)
	assert.True(t, strings.HasPrefix(s.errors[0], "Process: wsl: "))
	assert.True(t, strings.HasPrefix(s.errors[1], "Process: powershell: "))
	assert.Zero(t, e.Statistics().Bytes())
}

func TestProfileCleaner_NoCompactionInDryRun(t *testing.T) {
	profile := t.TempDir()
	write(t, filepath.Join(profile, config.DockerVHD()), 10)
	runner := &fakeRunner{}
	c, _, _ := newCleaner(t, time.Now(), sweep.ModeDryRun, runner)

	require.NoError(t, c.Clean(context.Background(), profile))

	assert.Empty(t, runner.calls)
}

func TestProfileCleaner_Cancelled(t *testing.T) {
	profile := t.TempDir()
	write(t, filepath.Join(profile, "Downloads", "a.txt"), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _, _ := newCleaner(t, time.Now().Add(40*config.Day), sweep.ModeConfirm, &fakeRunner{})

	require.ErrorIs(t, c.Clean(ctx, profile), context.Canceled)
	assert.FileExists(t, filepath.Join(profile, "Downloads", "a.txt"))
}
