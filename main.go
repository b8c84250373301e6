package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gridrace/server"
)

// GridRace 入口：启动 HTTP + WebSocket 服务，并初始化场地
func main() {
	var addr string
	flag.StringVar(&addr, "addr", "", "server listen address, e.g. :8080 (overrides PORT)")
	flag.Parse()
	// .env 为可选项，缺失不算错误
	_ = godotenv.Load()
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	// 使用第三方 zap 日志库写入 gridrace.log（带滚动）
	if err := server.InitLogger("gridrace.log"); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	// 注册表构造一次后注入场地，场地独占其读写
	arena := server.NewArena(server.NewRegistry())
	arena.StartLeaderboardTicker()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", arena.HandleWS)
	// 前后端分离：将 / 映射到 web 目录的静态资源
	mux.Handle("/", http.FileServer(http.Dir("web")))
	// 管理与监控接口
	mux.HandleFunc("/admin/config", arena.HandleAdminConfig)
	mux.HandleFunc("/metrics", arena.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		server.Log.Infof("GridRace listening on %s; open http://localhost%v/", addr, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
}
