package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/yourusername/adminserver/internal/auth"
	"github.com/yourusername/adminserver/internal/config"
	"github.com/yourusername/adminserver/internal/db"
	"github.com/yourusername/adminserver/internal/mailer"
	"github.com/yourusername/adminserver/internal/otp"
	"github.com/yourusername/adminserver/internal/store"
)

/* ------------------------------------------------------------------
   App struct — runtime container
-------------------------------------------------------------------*/

type App struct {
	cfg       config.Config
	db        *sqlx.DB
	users     *store.UserStore
	otp       *otp.Manager
	mailer    mailer.Sender
	auth      *auth.Service
	webRouter *gin.Engine
}

// New assembles an App from already-built collaborators. Used by tests and
// by Init.
func New(cfg config.Config, database *sqlx.DB, users *store.UserStore,
	otpm *otp.Manager, sender mailer.Sender, authService *auth.Service) *App {
	return &App{
		cfg:    cfg,
		db:     database,
		users:  users,
		otp:    otpm,
		mailer: sender,
		auth:   authService,
	}
}

/* ------------------------------------------------------------------
   Public getters
-------------------------------------------------------------------*/

func (a *App) GetConfig() config.Config   { return a.cfg }
func (a *App) GetDB() *sqlx.DB            { return a.db }
func (a *App) Users() *store.UserStore    { return a.users }
func (a *App) OTP() *otp.Manager          { return a.otp }
func (a *App) Mailer() mailer.Sender      { return a.mailer }
func (a *App) Auth() *auth.Service        { return a.auth }
func (a *App) SetWebRouter(r *gin.Engine) { a.webRouter = r }

/* ------------------------------------------------------------------
   Init / Close lifecycle
-------------------------------------------------------------------*/

func (a *App) Init() error {
	/* 1. configuration */
	c, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = c

	/* 2. database */
	dsn := db.DSN(c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.DBName, c.DB.SSLMode)
	a.db, err = db.Connect(dsn)
	if err != nil {
		return err
	}
	if err := db.Migrate(a.db); err != nil {
		return err
	}

	/* 3. services */
	a.auth = auth.NewService(c.JWTSecret)
	a.users = store.NewUserStore(a.db, a.auth)
	a.otp = otp.New()
	a.mailer = mailer.NewSMTPSender(c.SMTP)
	return nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
