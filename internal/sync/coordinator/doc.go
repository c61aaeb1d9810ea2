// Package coordinator triggers sync jobs on the intervals configured per stage.
//
// Every stage listed under sync.schedules gets its own ticker. A tick runs the
// stage's job through the jobs.Runner, so a tick that arrives while the previous
// run of the same job is still in progress is skipped. Stages are independent:
// a brands run never waits for, or triggers, a models run. Stages without a
// schedule only run when triggered by an operator.
//
// # Usage
//
//	coord := coordinator.New(runner, &cfg.Sync)
//	go func() {
//	    if err := coord.Start(ctx); err != nil {
//	        slog.Error("Coordinator failed", "error", err)
//	    }
//	}()
//	defer coord.Stop()
package coordinator
