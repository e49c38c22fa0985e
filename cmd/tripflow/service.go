package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/tripflow/tripflow/pkg/app"
)

func serviceCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "service <install|uninstall|start|stop|run>",
		Short: "Manage tripflow as a system service",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			svc, prg, err := newSystemService(cfgPath)
			if err != nil {
				return err
			}

			action := args[0]
			switch action {
			case "run":
				// Invoked by the service manager itself.
				if err := svc.Run(); err != nil {
					return err
				}
				return prg.runErr
			case "install", "uninstall", "start", "stop":
				if err := service.Control(svc, action); err != nil {
					return fmt.Errorf("service %s: %w", action, err)
				}
				fmt.Printf("Service %s: done\n", action)
				return nil
			default:
				return fmt.Errorf("unknown action %q", action)
			}
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to configuration file")
	return cmd
}

func newSystemService(cfgPath string) (service.Service, *program, error) {
	prg := &program{cfgPath: cfgPath}

	args := []string{"service", "run"}
	if cfgPath != "" {
		args = append(args, "--config", cfgPath)
	}
	svc, err := service.New(prg, &service.Config{
		Name:        "tripflow",
		DisplayName: "Tripflow Gateway",
		Description: "Conversation orchestration engine for travel planning",
		Arguments:   args,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating service: %w", err)
	}
	return svc, prg, nil
}

// program adapts app.Run to the service manager lifecycle. Start must not
// block, so the engine runs in its own goroutine and Stop delivers the same
// signal the foreground path would receive.
type program struct {
	cfgPath string
	done    chan struct{}
	runErr  error
}

func (p *program) Start(service.Service) error {
	p.done = make(chan struct{})
	go func() {
		defer close(p.done)
		p.runErr = app.Run(app.RunParams{
			ConfigPath: p.cfgPath,
			Version:    version,
			Commit:     commit,
			Date:       date,
			LogLevel:   slog.LevelInfo,
		})
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		return err
	}
	if err := proc.Signal(os.Interrupt); err != nil {
		return err
	}
	<-p.done
	return p.runErr
}
