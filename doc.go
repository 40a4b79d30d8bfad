// Package nettune 提供自适应网络调优的决策核心
//
// 决策核心观察内核上报的网络事件（TCP 重传、连接建立、邻居表项创建），
// 维护每个远端主机与每张邻居表的小块状态，并在条件满足时：
//
//   - 请求把新连接的拥塞控制算法切换为 bbr（同一远端重传过多时）
//   - 向用户态消费者报告调优事件（固定 80 字节记录）
//
// # 快速开始
//
//	engine, err := nettune.New(
//	    nettune.WithConfig(cfg),
//	    nettune.WithApplier(sockopt.Applier{}),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Start(ctx); err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	// 仪表层把通知送入 Hooks
//	hooks := engine.Hooks()
//	hooks.Retransmit(interfaces.RetransmitEvent{Family: types.FamilyInet, Addr: raw})
//
//	// 消费者读取事件
//	for ev := range engine.Events() {
//	    decoded, _ := consumer.Decode(ev)
//	    ...
//	}
//
// # 结构
//
//	nettune/
//	├── doc.go        # 包文档
//	├── engine.go     # Engine 定义、New、Hooks、Events
//	├── lifecycle.go  # Start、Stop、Close
//	├── options.go    # 函数式选项
//	├── fx.go         # Fx 应用组装
//	└── errors.go     # 公共错误
//
// 所有 Hooks 方法同步、非阻塞、可重入；任何失败（状态表已满、事件通道已满、
// 动作应用失败）都在内部计数并记录日志，不向调用方传播。
package nettune
