package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version 版本号，构建时通过 -ldflags "-X main.Version=..." 注入
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nettune %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
