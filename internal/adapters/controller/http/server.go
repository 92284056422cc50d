package httpapi

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/studorg/membership-service/internal/domain/service"
	"github.com/studorg/membership-service/internal/domain/watch"
	"github.com/studorg/membership-service/pkg/logger/types"
	"github.com/studorg/membership-service/pkg/storage"
)

// Services collects everything the API surfaces.
type Services struct {
	Profile        *service.ProfileService
	Role           *service.RoleService
	Application    *service.ApplicationService
	Event          *service.EventService
	Project        *service.ProjectService
	Class          *service.ClassService
	Semester       *service.SemesterService
	Lecture        *service.LectureService
	ProfileContext *service.ProfileContextService
}

type Options struct {
	Address   string
	Debug     bool
	JWTSecret []byte
	Storage   *storage.Disk
	Sessions  sessionStorage
	Bus       *watch.Bus
}

type Server struct {
	app    *echo.Echo
	logger *types.Logger

	address   string
	jwtSecret []byte

	profileService        *service.ProfileService
	roleService           *service.RoleService
	applicationService    *service.ApplicationService
	eventService          *service.EventService
	projectService        *service.ProjectService
	classService          *service.ClassService
	semesterService       *service.SemesterService
	lectureService        *service.LectureService
	profileContextService *service.ProfileContextService

	objectStorage *storage.Disk
	sessions      sessionStorage
	bus           *watch.Bus
	contexts      *contextRegistry
}

func NewServer(logger *types.Logger, opts Options, services Services) *Server {
	s := &Server{
		app:                   echo.New(),
		logger:                logger,
		address:               opts.Address,
		jwtSecret:             opts.JWTSecret,
		profileService:        services.Profile,
		roleService:           services.Role,
		applicationService:    services.Application,
		eventService:          services.Event,
		projectService:        services.Project,
		classService:          services.Class,
		semesterService:       services.Semester,
		lectureService:        services.Lecture,
		profileContextService: services.ProfileContext,
		objectStorage:         opts.Storage,
		sessions:              opts.Sessions,
		bus:                   opts.Bus,
		contexts:              newContextRegistry(services.ProfileContext),
	}
	s.setup(opts.Debug)
	return s
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func (s *Server) setup(debug bool) {
	s.app.HideBanner = true
	s.app.Debug = debug
	s.app.Validator = &requestValidator{validate: validator.New()}
	s.app.HTTPErrorHandler = errorHandler(s.logger)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.Recover())
	s.app.Use(middleware.RequestID())

	s.routes()
}

func (s *Server) routes() {
	auth := s.app.Group("/v1/auth")
	auth.POST("/register", s.register)
	auth.POST("/code", s.sendCode)
	auth.POST("/verify", s.verifyCode)
	auth.POST("/refresh", s.refresh)
	auth.POST("/logout", s.logout, s.authMiddleware)

	v1 := s.app.Group("/v1", s.authMiddleware)

	me := v1.Group("/me")
	me.GET("", s.myProfile)
	me.PUT("", s.updateMyProfile)
	me.PUT("/avatar", s.updateMyAvatar)
	me.DELETE("", s.deleteMyAccount)
	me.GET("/snapshot", s.mySnapshot)
	me.POST("/snapshot/refresh", s.refreshMySnapshot)

	v1.GET("/ws", s.watchSocket)

	applications := v1.Group("/applications")
	applications.POST("", s.submitApplication)
	applications.GET("", s.myApplications)
	applications.GET("/dashboard", s.applicationDashboard)
	applications.POST("/:id/decision", s.decideApplication)

	events := v1.Group("/events")
	events.GET("", s.listEvents)
	events.POST("/:id/rsvp", s.rsvp)
	events.DELETE("/:id/rsvp", s.cancelRSVP)
	events.POST("/check-in", s.checkIn)
	events.POST("", s.createEvent, s.boardMiddleware)
	events.PUT("/:id", s.updateEvent, s.boardMiddleware)
	events.DELETE("/:id", s.deleteEvent, s.boardMiddleware)
	events.GET("/:id/attendance.xlsx", s.exportAttendance, s.boardMiddleware)

	projects := v1.Group("/projects")
	projects.GET("", s.listProjects)
	projects.GET("/buckets", s.projectBuckets)
	projects.POST("", s.createProject, s.boardMiddleware)
	projects.PUT("/:id", s.updateProject, s.boardMiddleware)
	projects.DELETE("/:id", s.deleteProject, s.boardMiddleware)
	projects.GET("/:id/members", s.projectMembers, s.boardMiddleware)
	projects.POST("/:id/members", s.addProjectMember, s.boardMiddleware)
	projects.DELETE("/:id/members/:userID", s.removeProjectMember, s.boardMiddleware)

	classes := v1.Group("/classes")
	classes.GET("", s.listClasses)
	classes.GET("/buckets", s.classBuckets)
	classes.POST("", s.createClass, s.boardMiddleware)
	classes.PUT("/:id", s.updateClass, s.boardMiddleware)
	classes.DELETE("/:id", s.deleteClass, s.boardMiddleware)
	classes.GET("/:id/enrollments", s.classEnrollments, s.boardMiddleware)

	semesters := v1.Group("/semesters")
	semesters.GET("", s.listSemesters)
	semesters.POST("", s.createSemester, s.boardMiddleware)
	semesters.PUT("/:id", s.updateSemester, s.boardMiddleware)

	lectures := v1.Group("/lectures")
	lectures.GET("", s.listLectures)
	lectures.GET("/:slug", s.getLecture)
	lectures.POST("", s.createLecture, s.boardMiddleware)
	lectures.PUT("/:id", s.updateLecture, s.boardMiddleware)
	lectures.DELETE("/:id", s.deleteLecture, s.boardMiddleware)

	roles := v1.Group("/roles")
	roles.PUT("/:userID", s.assignRole, s.eboardMiddleware)

	// Signed download links are verified statelessly; no auth middleware.
	s.app.GET("/files/:key", s.serveFile)
}

func (s *Server) Start() error {
	return s.app.Start(s.address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.contexts.closeAll()
	return s.app.Shutdown(ctx)
}

// bind decodes and validates a request body in one step.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
