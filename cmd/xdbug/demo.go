package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaoshicae/xdbug"
	"github.com/xiaoshicae/xdbug/xerror"
)

const demoContextName = "worker"

type demoOptions struct {
	app        string
	config     string
	options    string
	workers    int
	iterations int
}

func newDemoCmd() *cobra.Command {
	o := &demoOptions{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a traced workload on several goroutines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), o)
		},
	}

	cmd.Flags().StringVar(&o.app, "app", "demo", "application name in the config file")
	cmd.Flags().StringVar(&o.config, "config", "", "config file, detected automatically when empty")
	cmd.Flags().StringVar(&o.options, "options", "", "options of the worker context, overrides the config file")
	cmd.Flags().IntVar(&o.workers, "workers", 2, "number of worker goroutines")
	cmd.Flags().IntVar(&o.iterations, "iterations", 2, "doWork calls per worker")
	return cmd
}

func runDemo(out io.Writer, o *demoOptions) error {
	if o.workers <= 0 || o.iterations <= 0 {
		return xerror.Newf("demo", "run", "workers and iterations must be positive, workers=[%d], iterations=[%d]", o.workers, o.iterations)
	}

	tr := xdbug.New(xdbug.WithFallback(out))
	if o.config != "" {
		if !tr.ReadConfig(o.app, o.config) {
			return xerror.Newf("demo", "run", "read config failed, app=[%s], path=[%s]", o.app, o.config)
		}
	} else {
		tr.Init(o.app)
	}
	if o.options != "" {
		tr.CreateContext(demoContextName, o.options)
	}

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			tr.SetName(demoContextName)
			for j := 0; j < o.iterations; j++ {
				doWork(tr, id, j)
			}
		}(i)
	}
	wg.Wait()

	if err := tr.CloseLogFile(); err != nil {
		return err
	}
	fmt.Fprintf(out, "done, workers=%d iterations=%d\n", o.workers, o.iterations)
	return nil
}

func doWork(tr *xdbug.Tracer, worker, iteration int) {
	s := tr.Enter("doWork")
	defer s.Exit()

	s.ProfStart()
	rows := query(tr, worker+iteration)
	s.ProfElapsed()

	s.Print("db", "worker %d fetched %d rows", worker, rows)
	if !s.Check("rows > 0", rows > 0) {
		s.VoidReturn()
		return
	}
	xdbug.Compare(s, "rows", "iteration", rows, iteration)
}

func query(tr *xdbug.Tracer, n int) int {
	s := tr.Enter("query")
	defer s.Exit()

	time.Sleep(time.Millisecond)
	s.Print("db.query", "select %d", n)
	return xdbug.Return(s, n)
}
