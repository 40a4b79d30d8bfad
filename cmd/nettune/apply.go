package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-nettune/config"
	"github.com/dep2p/go-nettune/internal/core/sockopt"
	"github.com/dep2p/go-nettune/pkg/types"
)

func newApplyCmd(flags *rootFlags) *cobra.Command {
	var (
		algorithm string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "apply <host:port>",
		Short: "Dial a TCP endpoint and switch the connection's congestion control",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configFile)
			if err != nil {
				return err
			}
			if algorithm == "" {
				algorithm = cfg.Cong.Algorithm
			}

			conn, err := net.DialTimeout("tcp", args[0], timeout)
			if err != nil {
				return err
			}
			defer conn.Close()
			tcp := conn.(*net.TCPConn)

			remote := tcp.RemoteAddr().(*net.TCPAddr).AddrPort().Addr().Unmap()
			before, err := sockopt.CurrentCongestion(tcp)
			if err != nil {
				return fmt.Errorf("read congestion control: %w", err)
			}

			action := types.TuningAction{
				Kind:      types.ActionSetCongestion,
				Algorithm: algorithm,
				Addr:      remote,
			}
			if err := (sockopt.Applier{}).Apply(tcp, action); err != nil {
				return err
			}

			after, err := sockopt.CurrentCongestion(tcp)
			if err != nil {
				return fmt.Errorf("read congestion control: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", remote, before, after)
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "目标拥塞控制算法，默认取 cong.algorithm")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "连接超时")
	return cmd
}
