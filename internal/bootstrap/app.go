package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/shift_scheduler/internal/config"
	"github.com/locvowork/shift_scheduler/internal/database"
	"github.com/locvowork/shift_scheduler/internal/handler"
	"github.com/locvowork/shift_scheduler/internal/logger"
	"github.com/locvowork/shift_scheduler/internal/repository"
	"github.com/locvowork/shift_scheduler/internal/service"
	"github.com/locvowork/shift_scheduler/pkg/schedulexcel"
)

type App struct {
	Echo  *echo.Echo
	Store *repository.Store

	Employees *service.EmployeeService
	Schedule  *service.ScheduleService
	Export    *service.ExportService
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{Echo: e}
}

// InitializeCore loads configuration, logging, the store and the services.
// Command-line tools stop here; the server continues with Initialize.
func (a *App) InitializeCore(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Initialize database connection
	dbConfig := database.Config{
		Driver:          cfg.DB_DRIVER,
		Path:            cfg.DB_PATH,
		Host:            cfg.DB_HOST,
		Port:            cfg.DB_PORT,
		User:            cfg.DB_USER,
		Password:        cfg.DB_PASSWORD,
		DBName:          cfg.DB_NAME,
		SSLMode:         cfg.DB_SSL_MODE,
		MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		BusyTimeout:     cfg.DB_BUSY_TIMEOUT,
	}

	db, err := database.Open(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.Store = repository.NewStore(db)

	var tmpl *schedulexcel.ReportTemplate
	if cfg.EXPORT_TEMPLATE != "" {
		if tmpl, err = schedulexcel.LoadTemplate(cfg.EXPORT_TEMPLATE); err != nil {
			a.Store.Close()
			return fmt.Errorf("failed to load export template: %w", err)
		}
	}

	// Initialize dependencies
	a.Employees = service.NewEmployeeService(a.Store)
	a.Schedule = service.NewScheduleService(a.Store)
	a.Employees.OnDelete(a.Schedule.RemoveEmployee)
	a.Export = service.NewExportService(a.Schedule, tmpl, cfg.EXPORT_PATH)

	if err := a.Schedule.Load(ctx); err != nil {
		a.Store.Close()
		return err
	}
	return nil
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitializeCore(ctx); err != nil {
		return err
	}

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(
		handler.NewEmployeeHandler(a.Employees),
		handler.NewScheduleHandler(a.Schedule),
		handler.NewExportHandler(a.Export),
	)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(handler.RequestLogger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler, schedHandler *handler.ScheduleHandler, exportHandler *handler.ExportHandler) {
	a.Echo.GET("/employees", empHandler.ListHandler)
	a.Echo.POST("/employees", empHandler.CreateHandler)
	a.Echo.GET("/employees/lookup", empHandler.LookupHandler)
	a.Echo.GET("/employees/:id", empHandler.GetHandler)
	a.Echo.DELETE("/employees/:id", empHandler.DeleteHandler)

	gridGroup := a.Echo.Group("/grid")
	gridGroup.GET("", schedHandler.GridHandler)
	gridGroup.PUT("/cells/:day/:row", schedHandler.AssignHandler)
	gridGroup.DELETE("/cells/:day/:row", schedHandler.ClearCellHandler)
	gridGroup.GET("/pending", schedHandler.PendingHandler)
	gridGroup.POST("/save", schedHandler.SaveHandler)

	slotGroup := a.Echo.Group("/slots")
	slotGroup.GET("", schedHandler.ListSlotsHandler)
	slotGroup.PUT("", schedHandler.ReplaceSlotsHandler)
	slotGroup.POST("", schedHandler.AddSlotHandler)
	slotGroup.GET("/options", schedHandler.SlotOptionsHandler)
	slotGroup.DELETE("/:row", schedHandler.RemoveSlotHandler)

	a.Echo.GET("/schedule", schedHandler.ListEntriesHandler)
	a.Echo.POST("/schedule", schedHandler.UpsertEntryHandler)
	a.Echo.DELETE("/schedule", schedHandler.ClearHandler)

	exportGroup := a.Echo.Group("/export")
	exportGroup.POST("", exportHandler.ExportHandler)
	exportGroup.GET("/download", exportHandler.DownloadHandler)
	exportGroup.GET("/csv", exportHandler.CSVHandler)
}

// Run serves until SIGINT or SIGTERM, then shuts down and closes the store.
func (a *App) Run() error {
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(config.DefaultEnvConfig.APP_HOST, config.DefaultEnvConfig.APP_PORT)
	errCh := make(chan error, 1)
	go func() {
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.InfoLog(ctx, "Listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
