package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"launchpad-decoder-sol/internal/config"
	"launchpad-decoder-sol/internal/logic/grpc"
	"launchpad-decoder-sol/internal/pkg/logger"
	"launchpad-decoder-sol/internal/svc"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var configFile = flag.String("f", "etc/grpc.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.GrpcConfig
	conf.MustLoad(*configFile, &c)

	if err := logger.InitLogger(c.LogConf.ToLogOption()); err != nil {
		logx.Must(err)
	}
	defer logger.Sync()

	serviceContext, err := svc.NewGrpcServiceContext(c, prometheus.DefaultRegisterer)
	if err != nil {
		logx.Must(err)
	}
	defer serviceContext.Close()

	if c.MetricsAddr != "" {
		go func() {
			logx.Infof("Starting metrics endpoint on %s", c.MetricsAddr)
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(c.MetricsAddr, nil); err != nil {
				logx.Errorf("metrics endpoint stopped: %v", err)
			}
		}()
	}

	sg := zerosvc.NewServiceGroup()

	var checker *grpc.SlotChecker
	if c.RpcEndpoint != "" {
		checker = grpc.NewSlotChecker(c.RpcEndpoint, serviceContext.Metrics)
		sg.Add(checker)
	}

	blockChan := make(chan *pb.SubscribeUpdateBlock, 200)
	sg.Add(grpc.NewBlockProcessor(serviceContext, blockChan, checker))

	grpcService, err := grpc.NewGrpcStreamManager(c.Grpc, serviceContext.Processor.Programs(), blockChan)
	if err != nil {
		logx.Must(err)
	}
	sg.Add(grpcService)

	logx.Infof("Starting grpc stream service")

	// sg.Start 会阻塞到所有服务退出，放到后台
	go sg.Start()

	// 等待退出信号
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logx.Info("Shutting down services...")
	sg.Stop()
}
