package models

type RunStatus string

const (
	// 子进程尚未启动，或启动失败
	StatusNotStarted RunStatus = "not-started"
	// 子进程正在运行，启动器阻塞等待
	StatusRunning RunStatus = "running"
	// 子进程已退出，退出码已取得
	StatusTerminated RunStatus = "terminated"
)
