package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/fps-sim/internal/auth"
	"github.com/annel0/fps-sim/internal/logging"
	"github.com/annel0/fps-sim/internal/middleware"
	"github.com/annel0/fps-sim/internal/storage"
	"github.com/annel0/fps-sim/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Simulation - то, что REST API видит у арены.
// Snapshot читается из любого потока, команды исполняются в начале следующего тика.
type Simulation interface {
	Snapshot() *world.Snapshot
	Enqueue(cmd world.Command)
}

// RestServer представляет REST API сервер
type RestServer struct {
	router  *gin.Engine
	sim     Simulation
	journal storage.Journal
	issuer  *auth.Issuer
	port    string
	metrics *ServerMetrics
	log     *logging.Logger

	httpServer *http.Server
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port       string                // порт для запуска сервера
	Sim        Simulation            // арена
	Journal    storage.Journal       // боевой журнал, может быть nil
	Issuer     *auth.Issuer          // проверка токенов
	Registerer prometheus.Registerer // nil - глобальный регистр
	Gatherer   prometheus.Gatherer   // источник /metrics, nil - глобальный
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(middleware.NewRequestLogger().Handler())
	router.Use(otelgin.Middleware("rest_api"))

	promMw := middleware.NewPrometheusMiddleware("rest_api", config.Registerer)
	router.Use(promMw.Handler())

	gatherer := config.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	server := &RestServer{
		router:  router,
		sim:     config.Sim,
		journal: config.Journal,
		issuer:  config.Issuer,
		port:    config.Port,
		metrics: NewServerMetrics(),
		log:     logging.GetAPILogger(),
	}

	server.setupRoutes()
	return server
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler { return rs.router }

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")

	// Чтение состояния доступно любому оператору с токеном
	protected := api.Group("/")
	protected.Use(rs.jwtMiddleware())
	{
		protected.GET("/snapshot", rs.handleSnapshot)
		protected.GET("/snapshot/enemies/:id", rs.handleEnemy)
		protected.GET("/journal", rs.handleJournal)
		protected.GET("/stats", rs.handleStats)
		protected.GET("/server", rs.handleServerInfo)

		admin := protected.Group("/admin")
		admin.Use(rs.adminMiddleware())
		{
			admin.POST("/intent", rs.handleIntent)
			admin.POST("/fire", rs.handleFire)
			admin.POST("/weapon/switch", rs.handleSwitchWeapon)
			admin.POST("/weapon/unlock", rs.handleUnlockSlot)
			admin.POST("/damage", rs.handleDamage)
			admin.POST("/spawn/enemy", rs.handleSpawnEnemy)
			admin.POST("/spawn/pickup", rs.handleSpawnPickup)
			admin.POST("/respawn-point", rs.handleRespawnPoint)
		}
	}

	rs.router.GET("/health", rs.handleHealth)
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, GenericResponse{Success: false, Message: msg})
}

func ok(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: msg, Data: data})
}

func (rs *RestServer) snapshot(c *gin.Context) *world.Snapshot {
	snap := rs.sim.Snapshot()
	if snap == nil {
		fail(c, http.StatusServiceUnavailable, "Арена ещё не готова")
	}
	return snap
}

// handleSnapshot возвращает последний опубликованный снимок арены
func (rs *RestServer) handleSnapshot(c *gin.Context) {
	if snap := rs.snapshot(c); snap != nil {
		ok(c, "Снимок арены", snap)
	}
}

// handleEnemy возвращает состояние одного врага
func (rs *RestServer) handleEnemy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Неверный ID")
		return
	}
	snap := rs.snapshot(c)
	if snap == nil {
		return
	}
	view, found := snap.Enemy(id)
	if !found {
		fail(c, http.StatusNotFound, "Враг не найден")
		return
	}
	ok(c, "Враг", view)
}

// handleJournal возвращает последние записи боевого журнала (?limit=, по умолчанию 100)
func (rs *RestServer) handleJournal(c *gin.Context) {
	if rs.journal == nil {
		fail(c, http.StatusNotFound, "Журнал отключён")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 0 || limit > 10000 {
		fail(c, http.StatusBadRequest, "limit должен быть от 0 до 10000")
		return
	}
	entries, err := rs.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		rs.log.Error("чтение журнала: %v", err)
		fail(c, http.StatusInternalServerError, "Ошибка чтения журнала")
		return
	}
	ok(c, "Журнал", entries)
}

// handleStats возвращает метрики процесса и счётчики арены
func (rs *RestServer) handleStats(c *gin.Context) {
	stats := make(map[string]interface{})

	if snap := rs.sim.Snapshot(); snap != nil {
		stats["arena"] = map[string]interface{}{
			"tick":        snap.Tick,
			"time":        snap.Time,
			"enemies":     len(snap.Enemies),
			"pickups":     len(snap.Pickups),
			"projectiles": snap.Projectiles,
			"keys":        snap.Keys,
			"pending":     snap.Pending,
		}
	}
	if rs.journal != nil {
		if n, err := rs.journal.Count(c.Request.Context()); err == nil {
			stats["journal_entries"] = n
		}
	}

	stats["server"] = rs.metrics.Report()
	stats["memory_details"] = rs.metrics.GetDetailedMemoryStats()

	ok(c, "Статистика получена", stats)
}

// handleServerInfo возвращает информацию о сервере
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	info := map[string]interface{}{
		"name":   "fps-sim",
		"status": "running",
		"uptime": rs.metrics.GetUptime(),
	}
	if snap := rs.sim.Snapshot(); snap != nil {
		info["scene"] = snap.Scene
		info["tick"] = snap.Tick
	}
	ok(c, "Информация о сервере", info)
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Start запускает REST сервер в отдельной горутине
func (rs *RestServer) Start() {
	rs.httpServer = &http.Server{
		Addr:              rs.port,
		Handler:           rs.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rs.log.Error("❌ Ошибка REST API сервера: %v", err)
		}
	}()
	rs.log.Info("✅ REST API сервер запущен на http://localhost%s", rs.port)
}

// Stop останавливает REST сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	rs.log.Info("🛑 Остановка REST API сервера...")
	return rs.httpServer.Shutdown(ctx)
}
