package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sheetsync/internal/config"
	"sheetsync/internal/i18n"
	"sheetsync/internal/record"
)

func newConnectCmd(load appLoader, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Choose the workbook that records are appended to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runConnect(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&flags.targetFile, "file", "", "Target workbook path (skips the save dialog)")
	return cmd
}

func newStatusCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a workbook is connected and writable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			a.runStatus(cmd.Context())
			return nil
		},
	}
}

func newAddCmd(load appLoader, flags *rootFlags) *cobra.Command {
	var (
		rec    record.Record
		noAuto bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a record locally and append it to the connected workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runAdd(cmd.Context(), rec, a.cfg.Append.AutoConnect && !noAuto)
		},
	}
	f := cmd.Flags()
	f.StringVar(&rec.Date, "date", "", "Delivery date")
	f.StringVar(&rec.Name, "name", "", "Customer name")
	f.StringVar(&rec.Contact, "contact", "", "WhatsApp number")
	f.StringVar(&rec.Address, "address", "", "Delivery address")
	f.Float64Var(&rec.TotalVolume, "volume", 0, "Total volume in ft^3")
	f.BoolVar(&noAuto, "no-auto-connect", false, "Do not open the save dialog when nothing is connected")
	f.StringVar(&flags.targetFile, "file", "", "Workbook to connect to when nothing is connected yet")
	return cmd
}

func newImportCmd(load appLoader, flags *rootFlags) *cobra.Command {
	var noAuto bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Append every record of a YAML or JSON list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runImport(cmd.Context(), args[0], a.cfg.Append.AutoConnect && !noAuto)
		},
	}
	cmd.Flags().BoolVar(&noAuto, "no-auto-connect", false, "Do not open the save dialog when nothing is connected")
	cmd.Flags().StringVar(&flags.targetFile, "file", "", "Workbook to connect to when nothing is connected yet")
	return cmd
}

func newShowCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the rows of the connected workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runShow(cmd.Context())
		},
	}
}

func newHistoryCmd(load appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the locally kept records",
	}
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List local records",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runHistoryList(cmd.Context())
		},
	}
	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a local record (the workbook is not touched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runHistoryRemove(cmd.Context(), args[0])
		},
	}
	cmd.AddCommand(list, rm)
	return cmd
}

func newDisconnectCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the connected workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runDisconnect(cmd.Context())
		},
	}
}

// newInitCmd 在当前目录生成项目配置，不打开存储
// newInitCmd scaffolds the project config in the working directory without opening the store.
func newInitCmd(out io.Writer) *cobra.Command {
	var elevation string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .sheetsync/config.json in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			path, err := config.InitProjectConfigScaffold(wd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("elevation") {
				if err := config.WriteElevation(wd, elevation); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, i18n.T("init.created", path))
			return nil
		},
	}
	cmd.Flags().StringVar(&elevation, "elevation", "", "Elevation policy: allow, ask or deny")
	return cmd
}

func newShellCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with slash commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runShell(cmd.Context())
		},
	}
}
