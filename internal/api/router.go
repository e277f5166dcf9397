package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/adminserver/internal/app"
)

/*
SetupRouter wires every HTTP endpoint, using thin closure wrappers so each
handler receives the running *app.App instance.
*/
func SetupRouter(a *app.App) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Hello World"})
	})

	m := NewMiddleware(a.Auth())

	/* ---------- user endpoints ---------- */
	users := r.Group("/api/users")
	{
		users.POST("/register", func(c *gin.Context) { handleRegister(a, c) })
		users.POST("/login", func(c *gin.Context) { handleLogin(a, c) })
		users.POST("/request-profile-update",
			func(c *gin.Context) { handleRequestProfileUpdate(a, c) })
		users.PUT("/verify-and-update-profile/:id",
			func(c *gin.Context) { handleVerifyAndUpdateProfile(a, c) })
		users.POST("/send-invitation",
			func(c *gin.Context) { handleSendInvitation(a, c) })

		/* ----- admin-only ----- */
		users.GET("", m.AuthRequired(), m.AdminRequired(),
			func(c *gin.Context) { handleListUsers(a, c) })
		users.DELETE("/users/:id", m.AuthRequired(), m.AdminRequired(),
			func(c *gin.Context) { handleDeleteUser(a, c) })
	}

	/* ---------- file endpoints (admin-only) ---------- */
	files := r.Group("/api/files")
	files.Use(m.AuthRequired(), m.AdminRequired())
	{
		files.POST("/upload", func(c *gin.Context) { handleUploadFile(a, c) })
		files.POST("/export", func(c *gin.Context) { handleExportData(a, c) })
	}

	return r
}
