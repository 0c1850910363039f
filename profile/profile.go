package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
)

// Profiler controls one profiling session around a command run.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	logger  *slog.Logger
	Config
}

// Start sets the sampling rates and begins CPU profiling if enabled. Call
// [Profiler.Stop] once the command finishes.
func (p *Profiler) Start() error {
	if p.BlockProfile != "" {
		runtime.SetBlockProfileRate(p.BlockProfileRate)
	}

	if p.MutexProfile != "" {
		runtime.SetMutexProfileFraction(p.MutexProfileFraction)
	}

	if p.CPUProfile == "" {
		return nil
	}

	path := p.path(p.CPUProfile)

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		must(f.Close())

		return fmt.Errorf("starting CPU profile: %w", err)
	}

	p.cpuFile = f

	p.logger.Debug("cpu profiling started", slog.String("path", path))

	return nil
}

// Stop ends CPU profiling and writes every enabled snapshot profile. It
// attempts all profiles and returns their errors joined.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing CPU profile: %w", err))
		}

		p.cpuFile = nil
	}

	snapshots := []struct {
		name string
		path string
	}{
		{"heap", p.HeapProfile},
		{"goroutine", p.GoroutineProfile},
		{"block", p.BlockProfile},
		{"mutex", p.MutexProfile},
	}

	for _, s := range snapshots {
		if s.path == "" {
			continue
		}

		path := p.path(s.path)

		err := writeProfile(s.name, path)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		p.logger.Debug("wrote profile", slog.String("profile", s.name), slog.String("path", path))
	}

	return errors.Join(errs...)
}

func (p *Profiler) path(name string) string {
	if p.Dir == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(p.Dir, name)
}

func writeProfile(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("unknown profile: %s", name)
	}

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	if name == "heap" {
		runtime.GC()
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		must(f.Close())

		return fmt.Errorf("write %s profile: %w", name, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close %s profile: %w", name, err)
	}

	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
