package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"imgsel/internal/app"
	"imgsel/internal/config"
	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
	"imgsel/internal/infra/fs"
	"imgsel/internal/infra/imaging"
	"imgsel/internal/logging"
	"imgsel/internal/presentation"
	"imgsel/internal/server"
)

// errBatchFailed signals a batch with failures whose details were already printed.
var errBatchFailed = errors.New("batch finished with failures")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errBatchFailed) {
			fmt.Fprintln(os.Stderr, appErrors.UserMessage(err))
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imgsel",
		Short: "Scan folders for images and copy or move a selection",
		Long: `imgsel finds image files under a folder, reads their dimensions and EXIF data,
and copies or moves a selection of them into a target folder.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterGlobalFlags(cmd.PersistentFlags())
	cmd.AddCommand(
		newScanCmd(),
		newMetaCmd(),
		newBatchCmd(domain.OpCopy),
		newBatchCmd(domain.OpMove),
		newMkdirCmd(),
		newServeCmd(),
	)
	return cmd
}

type session struct {
	cfg     config.Config
	logger  logging.Logger
	fs      fs.OSFS
	svc     app.Service
	printer presentation.Printer
}

// setup resolves the configuration and wires the service for one command run.
func setup(cmd *cobra.Command) (session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return session{}, appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}

	// The TUI owns the terminal, so its runs log nothing.
	logger := logging.Logger{}
	if !cfg.TUI {
		logger = logging.NewWithFormat(cmd.ErrOrStderr(), cfg.Verbose, logging.Format(cfg.LogFormat))
	}

	filesystem := fs.OSFS{}
	svc := app.NewService(filesystem, imaging.Decoder{}, imaging.ExifReader{}, logger, app.Options{
		ScanWorkers:  cfg.ScanWorkers,
		BatchWorkers: cfg.Workers,
	})

	return session{
		cfg:    cfg,
		logger: logger,
		fs:     filesystem,
		svc:    svc,
		printer: presentation.Printer{
			Writer:  cmd.OutOrStdout(),
			Verbose: cfg.Verbose,
			JSON:    cfg.JSON,
		},
	}, nil
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan DIR",
		Short: "List the images found under a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			result, err := rt.svc.ScanFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return rt.printer.PrintScan(result)
		},
	}
}

func newMetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meta FILE",
		Short: "Show dimensions, format and EXIF data of one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			meta, err := rt.svc.GetImageMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return rt.printer.PrintMetadata(args[0], meta)
		},
	}
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir DIR",
		Short: "Create a folder and any missing parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			return rt.svc.CreateDirectory(args[0])
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the operations as a JSON API with a websocket progress stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			srv := server.New(rt.svc, rt.logger)
			if err := srv.ListenAndServe(cmd.Context(), rt.cfg.Listen); err != nil {
				return appErrors.Wrap(appErrors.IOFailure, "listen", rt.cfg.Listen, err)
			}
			return nil
		},
	}
	config.RegisterServeFlags(cmd.Flags())
	return cmd
}
