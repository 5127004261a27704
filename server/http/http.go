package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var ErrServer = errs.Class("http server")

type Config struct {
	Endpoint        string        `help:"访问地址" default:"http://localhost:8080"`
	Address         string        `help:"监听地址" default:"0.0.0.0:8080"`
	ReadTimeout     time.Duration `help:"读超时" default:"30s"`
	WriteTimeout    time.Duration `help:"写超时,大报表需要调大" default:"5m"`
	ShutdownTimeout time.Duration `help:"优雅关闭等待时间" default:"5s"`
}

type Server struct {
	*gin.Engine
	httpSrv *http.Server
	logger  *zap.Logger
	config  Config
}

func NewServer(engine *gin.Engine, logger *zap.Logger, conf Config) *Server {
	s := &Server{
		Engine: engine,
		logger: logger,
		config: conf,
	}
	s.httpSrv = &http.Server{
		Addr:         conf.Address,
		Handler:      s,
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
	}
	return s
}

// Run 启动并阻塞，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return ErrServer.Wrap(err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server start", zap.String("address", ln.Addr().String()), zap.String("endpoint", s.config.Endpoint))
		errCh <- s.httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ErrServer.Wrap(err)
	case <-ctx.Done():
		return s.Stop()
	}
}

func (s *Server) Stop() error {
	s.logger.Info("Shutting down server...")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return ErrServer.Wrap(err)
	}

	s.logger.Info("Server exiting")
	return nil
}
