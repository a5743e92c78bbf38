package main

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-engine-go/internal/service/attendance"
	correctionService "github.com/cmlabs-hris/attendance-engine-go/internal/service/correction"
	policyService "github.com/cmlabs-hris/attendance-engine-go/internal/service/policy"
	reportService "github.com/cmlabs-hris/attendance-engine-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	recordRepo := postgresql.NewRecordRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	policyProvider := policyService.NewProvider(policyRepo, cfg.Policy)

	attendanceSvc := attendanceService.NewService(
		db,
		recordRepo,
		breakRepo,
		employeeRepo,
		shiftRepo,
		policyProvider,
	)
	correctionSvc := correctionService.NewService(
		db,
		correctionRepo,
		recordRepo,
		breakRepo,
		employeeRepo,
		shiftRepo,
		policyProvider,
	)
	reportSvc := reportService.NewService(reportRepo, recordRepo, employeeRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		correctionHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
