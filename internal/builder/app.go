package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram"
	"go.uber.org/zap"
)

// App represents the HTTP application with all its components
type App struct {
	server   *http.Server
	services *Services
	logger   *zap.Logger
}

// Run starts the HTTP server and blocks until a shutdown signal or a server error
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		a.services.Close()
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	err := a.server.Shutdown(ctx)
	if err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
	}

	a.logger.Info("Closing pipeline services")
	a.services.Close()

	a.logger.Info("Application stopped gracefully")
	_ = a.logger.Sync()
	return err
}

// BotApp runs the Telegram front-end over the same pipeline
type BotApp struct {
	bot      telegram.Bot
	services *Services
	logger   *zap.Logger
}

// Run starts long polling and blocks until a shutdown signal
func (a *BotApp) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer a.services.Close()

	if err := a.bot.Start(ctx); err != nil {
		a.logger.Error("telegram bot error", zap.Error(err))
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Stop before cancel so in-flight answers can finish.
	err := a.bot.Stop()
	if err != nil {
		a.logger.Error("error stopping bot", zap.Error(err))
	}
	cancel()

	a.logger.Info("telegram bot stopped gracefully")
	_ = a.logger.Sync()
	return err
}
