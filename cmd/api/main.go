package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffdesk/staffdesk-backend-go/internal/config"
	appHTTP "github.com/staffdesk/staffdesk-backend-go/internal/handler/http"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/cron"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/database"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/jwt"
	"github.com/staffdesk/staffdesk-backend-go/internal/pkg/platform"
	"github.com/staffdesk/staffdesk-backend-go/internal/repository/postgresql"
	advanceService "github.com/staffdesk/staffdesk-backend-go/internal/service/advance"
	approvalService "github.com/staffdesk/staffdesk-backend-go/internal/service/approval"
	attendanceService "github.com/staffdesk/staffdesk-backend-go/internal/service/attendance"
	employeeService "github.com/staffdesk/staffdesk-backend-go/internal/service/employee"
	identityService "github.com/staffdesk/staffdesk-backend-go/internal/service/identity"
	leaveService "github.com/staffdesk/staffdesk-backend-go/internal/service/leave"
	notificationService "github.com/staffdesk/staffdesk-backend-go/internal/service/notification"
	payrollService "github.com/staffdesk/staffdesk-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveQuotaRepo := postgresql.NewLeaveQuotaRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	botClient, err := platform.NewClient(cfg.Platform.BotToken)
	if err != nil {
		log.Fatal("Failed to connect to the chat platform:", err)
	}
	webhookVerifier := platform.NewWebhookVerifier(cfg.Platform.WebhookSecret)

	notifier := notificationService.NewNotificationService(botClient, cfg.Platform.AdminChatID, notificationService.Config{})
	defer notifier.Close()

	attendanceValidator, err := attendanceService.NewValidator(cfg.Engine)
	if err != nil {
		log.Fatal("Failed to build attendance validator:", err)
	}

	resolver := identityService.NewResolver(employeeRepo)
	attendanceSvc := attendanceService.NewService(attendanceRepo, employeeRepo, attendanceValidator, notifier)
	leaveSvc := leaveService.NewService(leaveRequestRepo, leaveQuotaRepo, employeeRepo, notifier, db)
	advanceSvc := advanceService.NewService(advanceRepo, employeeRepo, notifier, cfg.Engine.AdvanceCap)
	approvalSvc := approvalService.NewService(attendanceRepo, leaveRequestRepo, advanceRepo, attendanceSvc, leaveSvc, advanceSvc)
	payrollSvc := payrollService.NewService(attendanceRepo, leaveRequestRepo, advanceRepo)
	employeeSvc := employeeService.NewService(employeeRepo, leaveQuotaRepo, cfg.Engine)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		attendanceRepo, employeeRepo, leaveRequestRepo, advanceRepo,
		notifier, attendanceValidator.Location(),
	)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	handlers := appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(resolver, jwtService, cfg.Platform.BotToken),
		Webhook:    appHTTP.NewWebhookHandler(webhookVerifier, resolver, attendanceSvc, leaveSvc, advanceSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Advance:    appHTTP.NewAdvanceHandler(advanceSvc),
		Approval:   appHTTP.NewApprovalHandler(approvalSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
	}

	router := appHTTP.NewRouter(cfg, jwtService, handlers)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
