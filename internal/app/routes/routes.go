package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vemac/institute/internal/app/controllers"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/middleware"
	"github.com/vemac/institute/internal/pkg/metrics"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth      *controllers.AuthController
	Admission *controllers.AdmissionController
	Student   *controllers.StudentController
	Fee       *controllers.FeeController
	Status    *controllers.StatusController
	Inquiry   *controllers.InquiryController
	User      *controllers.UserController
	Institute *controllers.InstituteController
	Dashboard *controllers.DashboardController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware, storagePath string) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.Static("/uploads", storagePath)

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
	}
	v1.POST("/admissions", c.Admission.SubmitAdmission)
	v1.POST("/inquiries", c.Inquiry.SubmitInquiry)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", c.Auth.Me)

	student := authenticated.Group("")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/me/fees", c.Fee.MyFees)
	}

	// Office staff and administrators
	office := authenticated.Group("")
	office.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleOffice))
	{
		students := office.Group("/students")
		{
			students.GET("", c.Student.ListStudents)
			students.GET("/:id", c.Student.GetStudent)
			students.PUT("/:id", c.Student.UpdateStudent)
			students.PATCH("/:id/approve", c.Student.ApproveStudent)
			students.DELETE("/:id", c.Student.DeleteStudent)
			students.GET("/:id/slip.png", c.Student.AdmissionSlip)
		}

		fees := office.Group("/fees")
		{
			fees.POST("", c.Fee.SaveFee)
			fees.GET("", c.Fee.ListFees)
			fees.GET("/:feeId", c.Fee.GetFee)
			fees.PATCH("/:feeId/paid", c.Fee.MarkFeePaid)
		}

		office.PATCH("/status/:kind/:id", c.Status.ToggleStatus)
		office.GET("/inquiries", c.Inquiry.ListInquiries)
		office.GET("/dashboard/stats", c.Dashboard.Stats)
	}

	// Administrators only
	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/admission-codes", c.Admission.GenerateAdmissionCode)

		users := admin.Group("/users")
		{
			users.POST("", c.User.CreateUser)
			users.GET("", c.User.ListUsers)
			users.GET("/:id", c.User.GetUser)
			users.PUT("/:id", c.User.UpdateUser)
			users.DELETE("/:id", c.User.DeleteUser)
		}

		institutes := admin.Group("/institutes")
		{
			institutes.POST("", c.Institute.CreateInstitute)
			institutes.GET("", c.Institute.ListInstitutes)
			institutes.GET("/:id", c.Institute.GetInstitute)
			institutes.PUT("/:id", c.Institute.UpdateInstitute)
			institutes.DELETE("/:id", c.Institute.DeleteInstitute)
		}
	}
}
