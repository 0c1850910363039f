// Package profile writes pprof profiles for a vivadoc run.
//
// The flags are hidden and meant for investigating slow scans of large
// trees:
//
//	cfg := profile.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	p := cfg.NewProfiler(logger)
//	err := p.Start()
//	// run the scan
//	err = p.Stop()
//
// For example, vivadoc scan --profile-dir=/tmp --cpu-profile=cpu.prof ./src.
package profile
