package api

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/magicesim/storefront/api/apistrings"
	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/account"
	"github.com/magicesim/storefront/services/actions"
	"github.com/magicesim/storefront/services/cache"
	"github.com/magicesim/storefront/services/catalog"
	"github.com/magicesim/storefront/services/monitoring/logging"
	"github.com/magicesim/storefront/services/monitoring/tasks"
	"github.com/magicesim/storefront/services/orders"
	"github.com/magicesim/storefront/utils"
)

const warmTaskID = "catalog-warm"

//go:embed views/*.html
var views embed.FS

type Server struct {
	router     *gin.Engine
	config     *utils.Config
	logger     *logging.Logger
	provider   *providers.ProviderService
	cache      cache.Store
	redis      *cache.RedisStore
	catalog    *catalog.CatalogService
	orders     *orders.OrderService
	accounts   *account.AccountService
	dispatcher *actions.Dispatcher
	board      *orders.Board
	tasks      *tasks.TaskScheduler

	// streams numbers countdown streams; several tabs may watch one order.
	streams atomic.Int64
}

func NewServer(c *utils.Config, l *logging.Logger) (*Server, error) {
	p := providers.NewProviderService()

	// Set up the eSIM backend client
	p.AddProvider(esimstore.NewESIMStoreProvider(c, l))
	backend, err := esimstore.FromRegistry(p)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:   c,
		logger:   l,
		provider: p,
		board:    orders.NewBoard(),
		tasks:    tasks.NewTaskScheduler(l),
	}

	s.cache = cache.NewMemoryStore(c.CatalogCacheTTL)
	if c.RedisHost != "" {
		rs, err := cache.NewRedisStore(&cache.RedisConfig{
			Host:     c.RedisHost,
			Port:     c.RedisPort,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   "storefront:",
		})
		if err != nil {
			l.WithError(err).Warn("redis unavailable, using in-memory catalog cache")
		} else {
			s.cache = rs
			s.redis = rs
		}
	}

	s.catalog = catalog.NewCatalogService(backend, s.cache, c.CatalogCacheTTL, catalog.NewNormalizer(catalog.OptionsFromConfig(c)), l)
	s.orders = orders.NewOrderService(backend, c.Location(), c.FlagCDNURL, l)
	s.accounts = account.NewAccountService(backend, l)
	s.dispatcher = actions.NewDispatcher(s.catalog, s.orders, s.accounts, l)

	t, err := template.ParseFS(views, "views/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing views: %w", err)
	}

	g := gin.New()
	g.Use(gin.Recovery())
	g.Use(CORSMiddleware())
	g.Use(RequestContextMiddleware())
	g.Use(l.LoggingMiddleWare())
	g.SetHTMLTemplate(t)
	s.router = g

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	dr := models.SuccessResponse{
		Status:  "success",
		Message: apistrings.Welcome,
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})
	s.router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, models.NewSuccess(apistrings.Healthy, gin.H{"providers": s.provider.Names()}))
	})

	/// Register Object Routers Below
	Catalog{}.router(s)
	Orders{}.router(s)
	Checkout{}.router(s)
	Auth{}.router(s)
	ESIMs{}.router(s)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start schedules the cache warmer when configured and serves until the
// listener fails.
func (s *Server) Start() error {
	if s.config.CatalogWarmInterval > 0 {
		_, err := s.tasks.AddTask(warmTaskID, "warm global catalog", func(ctx context.Context) error {
			return s.catalog.Warm(ctx, catalog.ScopeGlobal, "")
		}, s.config.CatalogWarmInterval)
		if err != nil {
			return err
		}
		if err := s.tasks.Start(warmTaskID); err != nil {
			return err
		}
	}

	s.logger.WithField("config", s.config.Redact()).Debug("starting server")
	return s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}

// Close stops background work: the warmer, live countdowns and redis.
func (s *Server) Close() {
	s.tasks.Stop()
	s.board.StopAll()
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.WithError(err).Warn("closing redis")
		}
	}
}
