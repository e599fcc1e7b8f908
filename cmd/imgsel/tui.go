package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"imgsel/internal/domain"
	"imgsel/internal/tui"
)

func runTUI(ctx context.Context, rt session, kind domain.OperationKind) error {
	var p *tea.Program

	model := tui.NewModel(tui.Config{
		SourceDir: rt.cfg.SourceDir,
		TargetDir: rt.cfg.TargetDir,
		Kind:      kind,
		Verbose:   rt.cfg.Verbose,
		ExecuteBatch: func(records []domain.ImageFileRecord) tea.Cmd {
			return func() tea.Msg {
				svc := rt.svc.WithProgress(nil, func(current, total int) {
					p.Send(tui.BatchProgressMsg{Current: current, Total: total})
				})
				var result domain.BatchResult
				if kind == domain.OpMove {
					result = svc.BatchMoveFiles(ctx, records, rt.cfg.TargetDir)
				} else {
					result = svc.BatchCopyFiles(ctx, records, rt.cfg.TargetDir)
				}
				return tui.BatchDoneMsg{Result: result}
			}
		},
	})

	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		svc := rt.svc.WithProgress(func(current, total int) {
			p.Send(tui.ScanProgressMsg{Current: current, Total: total})
		}, nil)

		scan, err := svc.ScanFolder(ctx, rt.cfg.SourceDir)
		if err != nil {
			p.Send(tui.ErrorMsg{Err: err})
			return
		}
		selected, err := selectRecords(scan.Images, rt.cfg.Only)
		if err != nil {
			p.Send(tui.ErrorMsg{Err: err})
			return
		}
		scan.Images = selected
		scan.TotalCount = len(selected)

		var overwrites []domain.ImageFileRecord
		if !rt.cfg.Yes {
			overwrites, err = existingTargets(rt.fs, selected, rt.cfg.TargetDir)
			if err != nil {
				p.Send(tui.ErrorMsg{Err: err})
				return
			}
		}
		p.Send(tui.ScanDoneMsg{Result: scan, Overwrites: overwrites})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	m := finalModel.(tui.Model)
	if m.Err != nil {
		return m.Err
	}
	if m.Result.FailedCount > 0 {
		return errBatchFailed
	}
	return nil
}
