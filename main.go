package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/isdelr/mindcare-be/internal/api"
	"github.com/isdelr/mindcare-be/internal/assistant"
	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/config"
	"github.com/isdelr/mindcare-be/internal/logger"
	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/monitoring"
	"github.com/isdelr/mindcare-be/internal/seed"
	"github.com/isdelr/mindcare-be/internal/services"
	"github.com/isdelr/mindcare-be/internal/session"
	"github.com/isdelr/mindcare-be/internal/store"
	"github.com/isdelr/mindcare-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "mindcare",
		Short:        "Student mental-health platform backend",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "users",
			Short: "List the seed users that can sign in",
			RunE:  runUsers,
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())
	logger.EnableRollbar(cfg.RollbarToken, cfg.Env)
	defer logger.Flush()

	st := store.New(seed.Fixtures())

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()
	monitoring.RegisterClientGauge(hub.ClientCount)

	stopForwarding := websocket.ForwardChanges(st, hub)
	defer stopForwarding()
	stopCounting := st.Subscribe(func(c store.Change) {
		monitoring.StoreChanges.WithLabelValues(string(c.Collection), string(c.Op)).Inc()
	})
	defer stopCounting()

	// Set up services
	eventService := services.NewEventService(services.DefaultEventCapacity)
	eventService.OnEvent(hub.PublishEvent)
	userService := services.NewUserService(st)
	resourceService := services.NewResourceService(st, eventService)
	appointmentService := services.NewAppointmentService(st, eventService)
	forumService := services.NewForumService(st, eventService)
	dashboardService := services.NewDashboardService(st, appointmentService, forumService)

	assistantClient := assistant.NewClient(cfg.AssistantURL, cfg.AssistantTimeout)
	if !assistantClient.Configured() {
		log.Warn().Msg("ASSISTANT_URL is not set; the support chat will answer with a notice")
	}

	// Set up and run the elapsed-session reminders
	scheduler := monitoring.NewScheduler(st, eventService, cfg.ReminderCron)
	if err := scheduler.Start(); err != nil {
		return err
	}

	cookies := session.NewManager(cfg.SessionKey, cfg.IsProduction(), int(cfg.SessionMaxAge.Seconds()))
	authenticator := auth.NewAuthenticator(st, cookies, []byte(cfg.JWTSecret))

	// Set up router
	router := api.NewRouter(api.Deps{
		Hub:            hub,
		Auth:           authenticator,
		Users:          userService,
		Resources:      resourceService,
		Appointments:   appointmentService,
		Forum:          forumService,
		Dashboards:     dashboardService,
		Events:         eventService,
		Assistant:      assistantClient,
		Health:         monitoring.NewHealthChecker(hub.ClientCount),
		AllowedOrigins: cfg.AllowedOrigins,
		ChatRatePerMin: cfg.ChatRatePerMin,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		log.Error().Err(err).Msg("Server failed")
		scheduler.Stop()
		hub.Stop()
		return err
	}
	log.Info().Msg("Shutting down server...")

	scheduler.Stop() // Stop the reminder job

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
	return nil
}

func runUsers(cmd *cobra.Command, args []string) error {
	users := services.NewUserService(store.New(seed.Fixtures())).LoginOptions()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROLE\tNAME\tEMAIL")
	for _, role := range models.Roles {
		options := users[role]
		sort.SliceStable(options, func(i, j int) bool { return options[i].ID < options[j].ID })
		for _, u := range options {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Role, u.Name, u.Email)
		}
	}
	return w.Flush()
}
