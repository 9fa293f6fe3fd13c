package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/config"
	appHTTP "github.com/fieldpulse/fieldcrm-backend-go/internal/handler/http"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/database"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/jwt"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/oauth"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/sse"
	firestoreRepo "github.com/fieldpulse/fieldcrm-backend-go/internal/repository/firestore"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/repository/postgresql"
	activityService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/activity"
	attendanceService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/attendance"
	serviceAuth "github.com/fieldpulse/fieldcrm-backend-go/internal/service/auth"
	profileService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/profile"
	reminderService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/reminder"
	reportService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/report"
	voiceService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/voice"
	workplanService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/workplan"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	docStore, err := database.NewDocStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsPath)
	if err != nil {
		fmt.Println("Error connecting to Firestore:", err)
		return
	}
	defer docStore.Close()

	profileRepo := firestoreRepo.NewProfileRepository(docStore)
	attendanceRepo := firestoreRepo.NewAttendanceRepository(docStore)
	workPlanRepo := firestoreRepo.NewWorkPlanRepository(docStore)
	reminderRepo := firestoreRepo.NewReminderRepository(docStore)
	activityRepo := postgresql.NewActivityRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	hub := sse.NewHub()

	activitySvc := activityService.NewActivityService(activityRepo, hub)
	reminderSvc := reminderService.NewReminderService(reminderRepo, nil)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, profileRepo, activitySvc, reminderSvc, nil)
	workPlanSvc := workplanService.NewWorkPlanService(workPlanRepo, profileRepo, activitySvc, workplanService.NewRoleAuthorizer(profileRepo), nil)
	profileSvc := profileService.NewProfileService(profileRepo, nil)
	reportSvc := reportService.NewReportService(reportRepo, profileRepo, nil)
	authSvc := serviceAuth.NewAuthService(profileRepo, JWTService, GoogleService)

	dispatcher := voiceService.NewToolDispatcher(attendanceSvc, reminderSvc, profileSvc, reportSvc)
	dialer := voiceService.NewWebSocketDialer(cfg.Voice.ModelURL)
	voiceSvc := voiceService.NewVoiceService(profileRepo, dispatcher, dialer, cfg.Voice.APIKey, nil)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	profileHandler := appHTTP.NewProfileHandler(profileSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	workPlanHandler := appHTTP.NewWorkPlanHandler(workPlanSvc)
	activityHandler := appHTTP.NewActivityHandler(activitySvc, JWTService, hub)
	reminderHandler := appHTTP.NewReminderHandler(reminderSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	voiceHandler := appHTTP.NewVoiceHandler(voiceSvc, JWTService)

	router := appHTTP.NewRouter(
		JWTService,
		authHandler,
		profileHandler,
		attendanceHandler,
		workPlanHandler,
		activityHandler,
		reminderHandler,
		reportHandler,
		voiceHandler,
		cfg.App.CORSOrigin,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
