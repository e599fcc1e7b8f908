package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"imgsel/internal/config"
	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
)

func newBatchCmd(kind domain.OperationKind) *cobra.Command {
	short := "Copy images from a source folder into a target folder"
	if kind == domain.OpMove {
		short = "Move images from a source folder into a target folder"
	}
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, kind)
		},
	}
	config.RegisterBatchFlags(cmd.Flags())
	return cmd
}

func runBatch(cmd *cobra.Command, kind domain.OperationKind) error {
	ctx := cmd.Context()

	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	if err := rt.cfg.ValidateBatch(); err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}

	if rt.cfg.TUI {
		return runTUI(ctx, rt, kind)
	}

	scan, err := rt.svc.ScanFolder(ctx, rt.cfg.SourceDir)
	if err != nil {
		return err
	}
	selected, err := selectRecords(scan.Images, rt.cfg.Only)
	if err != nil {
		return err
	}

	var overwrites []domain.ImageFileRecord
	if !rt.cfg.Yes {
		overwrites, err = existingTargets(rt.fs, selected, rt.cfg.TargetDir)
		if err != nil {
			return err
		}
	}
	if len(overwrites) > 0 {
		rt.printer.PrintOverwrites(overwrites)
		confirmed, err := confirmOverrides(cmd.InOrStdin(), cmd.OutOrStdout(), len(overwrites))
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "prompt", "", err)
		}
		if !confirmed {
			selected = excludeRecords(selected, overwrites)
		}
	}
	if len(selected) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do.")
		return nil
	}

	var result domain.BatchResult
	if kind == domain.OpMove {
		result = rt.svc.BatchMoveFiles(ctx, selected, rt.cfg.TargetDir)
	} else {
		result = rt.svc.BatchCopyFiles(ctx, selected, rt.cfg.TargetDir)
	}
	if err := rt.printer.PrintBatch(kind, result); err != nil {
		return err
	}
	if result.FailedCount > 0 {
		return errBatchFailed
	}
	return nil
}

// selectRecords keeps the records named in only, or every record when only is empty.
func selectRecords(records []domain.ImageFileRecord, only []string) ([]domain.ImageFileRecord, error) {
	selected := records
	if len(only) > 0 {
		wanted := make(map[string]bool, len(only))
		for _, name := range only {
			wanted[strings.TrimSpace(name)] = true
		}
		selected = make([]domain.ImageFileRecord, 0, len(only))
		for _, r := range records {
			if wanted[r.Name] {
				selected = append(selected, r)
			}
		}
	}
	if len(selected) == 0 {
		return nil, appErrors.Wrap(appErrors.InvalidConfig, "select", "", errors.New("no images selected"))
	}
	return selected, nil
}

type existenceChecker interface {
	Exists(path string) (bool, error)
}

// existingTargets returns the records whose file already exists in targetDir.
func existingTargets(fsys existenceChecker, records []domain.ImageFileRecord, targetDir string) ([]domain.ImageFileRecord, error) {
	var out []domain.ImageFileRecord
	for _, r := range records {
		target := filepath.Join(targetDir, r.Name)
		exists, err := fsys.Exists(target)
		if err != nil {
			return nil, appErrors.WrapIO("stat", target, err)
		}
		if exists {
			out = append(out, r)
		}
	}
	return out, nil
}

func excludeRecords(all, skip []domain.ImageFileRecord) []domain.ImageFileRecord {
	excluded := make(map[string]bool, len(skip))
	for _, r := range skip {
		excluded[r.Path] = true
	}
	out := make([]domain.ImageFileRecord, 0, len(all))
	for _, r := range all {
		if !excluded[r.Path] {
			out = append(out, r)
		}
	}
	return out
}

func confirmOverrides(in io.Reader, out io.Writer, count int) (bool, error) {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "Override %d existing files? [y/N]: ", count)
	answer, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
