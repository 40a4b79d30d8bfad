package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-nettune/internal/util/logger"
	"github.com/dep2p/go-nettune/pkg/lib/log"
)

var cmdLogger = log.Logger("nettune/cmd")

// rootFlags 全局参数
type rootFlags struct {
	configFile string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "nettune",
		Short:         "Adaptive network tuning decision core",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(flags, cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "配置文件路径（.json / .yaml）")
	pf.StringVar(&flags.logLevel, "log-level", "", "日志级别，覆盖 NETTUNE_LOG_LEVEL（如 info 或 cong=debug,info）")
	pf.StringVar(&flags.logFormat, "log-format", "", "日志格式 text / json，覆盖 NETTUNE_LOG_FORMAT")

	root.AddCommand(
		newRunCmd(flags),
		newReplayCmd(flags),
		newApplyCmd(flags),
		newConfigCmd(flags),
		newVersionCmd(),
	)
	return root
}

func setupLogging(flags *rootFlags, w io.Writer) {
	cfg := logger.ConfigFromEnv()
	if flags.logLevel != "" {
		logger.ParseLevels(&cfg, flags.logLevel)
	}
	if f, ok := logger.ParseFormat(flags.logFormat); ok {
		cfg.Format = f
	}
	logger.Setup(w, cfg)
}
