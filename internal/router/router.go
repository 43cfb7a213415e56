package router

import (
	"net/http"
	"time"

	"github.com/campusroll/attendance-backend/internal/config"
	"github.com/campusroll/attendance-backend/internal/handler"
	"github.com/campusroll/attendance-backend/internal/middleware"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Admin         *handler.AdminHandler
	Student       *handler.StudentHandler
	StudentPortal *handler.StudentPortalHandler
	Faculty       *handler.FacultyHandler
	Class         *handler.ClassHandler
	Attendance    *handler.AttendanceHandler
	AcademicYear  *handler.AcademicYearHandler
	Setting       *handler.SettingHandler
	Report        *handler.ReportHandler
	Transfer      *handler.TransferHandler
	Dashboard     *handler.DashboardHandler
	Live          *handler.LiveHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "X-Report-Status", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Downloads are already compressed (zip, xlsx) or served as attachments as is.
	brotliConfig := middleware.DefaultBrotliConfig
	brotliConfig.Skipper = middleware.DownloadSkipper("/export", "/backup")
	router.Use(middleware.BrotliWithConfig(brotliConfig))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/settings", handlers.Setting.GetPublicSettings)
	}

	// Rate limiter for auth routes (30 requests per minute per IP and route).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.POST("/faculty/login", handlers.Auth.FacultyLogin)
		auth.POST("/student/login", handlers.Auth.StudentLogin)
	}

	// ─── 2. Student Group (Student JWT) ────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireJWT(authService, service.RoleStudent), middleware.NoStore())
	{
		studentAPI.GET("/me", handlers.StudentPortal.GetProfile)
		studentAPI.GET("/stats", handlers.StudentPortal.GetStats)
		studentAPI.GET("/history", handlers.StudentPortal.GetHistory)
	}

	// ─── 3. Staff Group (Faculty or Admin JWT) ─────────────────────────
	staffAPI := router.Group("/api/v1")
	staffAPI.Use(middleware.RequireJWT(authService, service.RoleAdmin, service.RoleFaculty), middleware.NoStore())
	{
		staffAPI.GET("/classes", handlers.Class.ListClasses)
		staffAPI.GET("/classes/:id", handlers.Class.GetClass)
		staffAPI.GET("/academic-years", handlers.AcademicYear.ListAcademicYears)

		staffAPI.GET("/attendance", handlers.Attendance.ListAttendance)
		staffAPI.POST("/attendance/mark", handlers.Attendance.MarkAttendance)
		staffAPI.POST("/attendance/mark-bulk", handlers.Attendance.MarkBulkAttendance)
	}

	// ─── 4. WebSocket Group (Token in query) ───────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService, service.RoleAdmin, service.RoleFaculty))
	{
		ws.GET("/attendance", handlers.Live.AttendanceFeed)
	}

	// ─── 5. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireJWT(authService), middleware.RequireRole(service.RoleAdmin), middleware.NoStore())
	{
		adminAPI.GET("/me", handlers.Admin.GetProfile)
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)

		// Student management
		studentsGroup := adminAPI.Group("/students")
		{
			studentsGroup.GET("", handlers.Student.ListStudents)
			studentsGroup.GET("/:id", handlers.Student.GetStudent)
			studentsGroup.POST("", handlers.Student.CreateStudent)
			studentsGroup.PUT("/:id", handlers.Student.UpdateStudent)
			studentsGroup.DELETE("/:id", handlers.Student.DeleteStudent)
		}

		// Faculty management
		facultyGroup := adminAPI.Group("/faculty")
		{
			facultyGroup.GET("", handlers.Faculty.ListFaculty)
			facultyGroup.GET("/:id", handlers.Faculty.GetFaculty)
			facultyGroup.POST("", handlers.Faculty.CreateFaculty)
			facultyGroup.PUT("/:id", handlers.Faculty.UpdateFaculty)
			facultyGroup.DELETE("/:id", handlers.Faculty.DeleteFaculty)
		}

		// Class management
		classesGroup := adminAPI.Group("/classes")
		{
			classesGroup.GET("", handlers.Class.ListClasses)
			classesGroup.POST("", handlers.Class.CreateClass)
			classesGroup.PUT("/:id", handlers.Class.UpdateClass)
			classesGroup.DELETE("/:id", handlers.Class.DeleteClass)
		}

		adminAPI.DELETE("/attendance/:id", handlers.Attendance.DeleteAttendance)

		// Academic years
		yearsGroup := adminAPI.Group("/academic-years")
		{
			yearsGroup.POST("", handlers.AcademicYear.CreateAcademicYear)
			yearsGroup.PUT("/:id", handlers.AcademicYear.UpdateAcademicYear)
			yearsGroup.DELETE("/:id", handlers.AcademicYear.DeleteAcademicYear)
		}

		// App Settings Routes
		settingsGroup := adminAPI.Group("/settings")
		{
			settingsGroup.GET("", handlers.Setting.GetAllSettings)
			settingsGroup.PUT("", handlers.Setting.UpdateSettings)
			settingsGroup.DELETE("/:key", handlers.Setting.DeleteSetting)
		}

		// Attendance history report
		adminAPI.GET("/reports/attendance", handlers.Report.GetAttendanceReport)
		adminAPI.GET("/reports/attendance/export", handlers.Report.ExportAttendanceReport)

		// Import, export, backup and restore
		importGroup := adminAPI.Group("/import")
		{
			importGroup.POST("/students", handlers.Transfer.ImportStudents)
			importGroup.POST("/faculty", handlers.Transfer.ImportFaculty)
			importGroup.POST("/classes", handlers.Transfer.ImportClasses)
		}
		adminAPI.GET("/export", handlers.Transfer.Export)
		adminAPI.GET("/backup", handlers.Transfer.DownloadBackup)
		adminAPI.POST("/backup/s3", handlers.Transfer.UploadBackup)
		adminAPI.POST("/restore", handlers.Transfer.Restore)
		adminAPI.DELETE("/tables/:table", handlers.Transfer.ClearTable)
	}

	return router
}
