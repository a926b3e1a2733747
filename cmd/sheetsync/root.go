package main

import (
	"io"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	targetFile string
}

// newRootCmd 构建命令树；in/out 可在测试中替换
// newRootCmd builds the command tree; tests substitute in and out.
func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "sheetsync",
		Short:         "Mirror customer records into a spreadsheet file you choose",
		Long:          "sheetsync keeps a local list of customer records and appends each one to a single .xlsx workbook that stays connected across runs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config JSON/JSONC")

	// 惰性创建应用，init 之类的命令不需要打开存储；调用方负责 close
	// the app is built lazily so commands such as init never open the store; callers close it
	load := func() (*app, error) {
		return newApp(appOptions{
			configPath: flags.configPath,
			targetFile: flags.targetFile,
			in:         in,
			out:        out,
			errOut:     errOut,
		})
	}

	root.AddCommand(
		newConnectCmd(load, flags),
		newStatusCmd(load),
		newAddCmd(load, flags),
		newImportCmd(load, flags),
		newShowCmd(load),
		newHistoryCmd(load),
		newDisconnectCmd(load),
		newInitCmd(out),
		newShellCmd(load),
	)
	return root
}

type appLoader func() (*app, error)
