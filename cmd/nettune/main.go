// Package main 提供 nettune 命令行入口
//
// 子命令：
//
//	nettune run      读取实时通知流，提供 /metrics
//	nettune replay   按时间戳回放通知轨迹，输出调优事件
//	nettune apply    对一条 TCP 连接执行拥塞控制切换
//	nettune config   打印生效配置或环境变量说明
//	nettune version  显示版本信息
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
