package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "med-adherence/docs"
	mem "med-adherence/internal/adapters/storage/memory"
	pg "med-adherence/internal/adapters/storage/postgres"
	"med-adherence/internal/domain/adherence"
	"med-adherence/internal/domain/categories"
	"med-adherence/internal/domain/doselogs"
	"med-adherence/internal/domain/medications"
	"med-adherence/internal/domain/reports"
	"med-adherence/internal/domain/schedule"
	"med-adherence/internal/middleware"
	"med-adherence/internal/platform/logger"
	"med-adherence/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si viene, loguea cada request.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		medsRepo medications.Repository
		catsRepo categories.Repository
		logsRepo doselogs.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		medsRepo = pg.NewMedicationsRepo(db)
		catsRepo = pg.NewCategoriesRepo(db)
		logsRepo = pg.NewDoseLogsRepo(db)
	} else {
		medsRepo = mem.NewMedicationsRepo()
		catsRepo = mem.NewCategoriesRepo()
		logsRepo = mem.NewDoseLogsRepo()
	}

	// Services por módulo
	medsSvc := medications.NewService(medsRepo)
	catsSvc := categories.NewService(catsRepo)
	logsSvc := doselogs.NewService(logsRepo)
	schedSvc := schedule.NewService(medsSvc, logsSvc)
	adherSvc := adherence.NewService(medsSvc, logsSvc)
	reportsSvc := reports.NewService(medsSvc, logsSvc)

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	categories.RegisterRoutes(r, catsSvc, medsSvc)
	doselogs.RegisterRoutes(r, logsSvc, medsSvc)
	schedule.RegisterRoutes(r, schedSvc)
	adherence.RegisterRoutes(r, adherSvc)
	reports.RegisterRoutes(r, reportsSvc)

	return r
}
