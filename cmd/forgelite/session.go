package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ForgeLite/forgelite/pkg/session"
	"github.com/pterm/pterm"
)

// runSession starts the interactive loop, wiring persistence for mode
// preference and command history.
func runSession(ctx context.Context, a *app, flags *rootFlags) error {
	defer a.close()

	mode := session.ParseMode(flags.mode)
	if flags.mode == "" {
		mode = session.ParseMode(a.cfg.InteractionMode())
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT)
	defer signal.Stop(sigs)
	reader := session.NewSignalReader(session.NewLineReader(os.Stdin), sigs)
	defer func() { _ = reader.Close() }()

	var eng *session.Engine
	eng, err := session.NewEngine(session.Options{
		Menus:     a.menus,
		Commands:  a.registry,
		Reader:    reader,
		Mode:      mode,
		DebugMode: flags.debug,
		History:   a.history.Commands(session.DefaultHistoryLimit),
		OnHistory: func(entry string) {
			sctx := eng.Context()
			a.history.Append(entry, sctx.Level, string(sctx.Mode), sctx.SessionID)
		},
		OnModeChange: func(m session.Mode) {
			if err := a.cfg.SetInteractionMode(string(m)); err != nil {
				pterm.Warning.Printf("Failed to persist interaction mode: %v\n", err)
			}
			_ = a.states.SetLastMode(string(m))
		},
	})
	if err != nil {
		return err
	}

	if err := a.states.RecordSessionStart(eng.Context().SessionID); err != nil {
		pterm.Warning.Printf("Failed to record session: %v\n", err)
	}

	pterm.DefaultHeader.Println("forgelite")
	runErr := eng.Run(ctx)

	sctx := eng.Context()
	if err := a.states.RecordSessionEnd(sctx.Level, string(sctx.Mode)); err != nil {
		pterm.Warning.Printf("Failed to record session end: %v\n", err)
	}
	if err := a.history.Save(); err != nil {
		pterm.Warning.Printf("Failed to save history: %v\n", err)
	}
	return runErr
}
