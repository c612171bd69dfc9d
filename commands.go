package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/api"
	"github.com/rpupo63/unified-admin-dashboard/auth"
	"github.com/rpupo63/unified-admin-dashboard/config"
	"github.com/rpupo63/unified-admin-dashboard/database"
	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/services"
	"github.com/rpupo63/unified-admin-dashboard/session"
	"github.com/rpupo63/unified-admin-dashboard/storage"
)

func newRootCommand() *cobra.Command {
	var c map[string]string

	cmd := &cobra.Command{
		Use:           "admin-dashboard",
		Short:         "Admin dashboard backend for Portfolio, Vikin and Graphyl",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c = config.Load()
			configureLogging(c)
		},
	}
	getConfig := func() map[string]string { return c }

	cmd.AddCommand(
		newServeCommand(getConfig),
		newCreateUserCommand(getConfig),
		newReconcileCountsCommand(getConfig),
	)
	return cmd
}

func configureLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func newServeCommand(getConfig func() map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), getConfig())
		},
	}
}

func serve(ctx context.Context, c map[string]string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info().Msg("Initializing app...")

	client, db, err := openDatabase(ctx, c)
	if err != nil {
		return err
	}
	defer database.Disconnect(client)

	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}

	authService, err := newAuthService(ctx, c, db)
	if err != nil {
		return err
	}

	store, err := storage.NewS3Store(ctx, storage.Options{
		Endpoint:        config.GetString(c, "S3_ENDPOINT", ""),
		Region:          config.GetString(c, "S3_REGION", "us-east-1"),
		Bucket:          config.GetString(c, "S3_BUCKET", ""),
		AccessKeyID:     config.GetString(c, "S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetString(c, "S3_SECRET_ACCESS_KEY", ""),
		PublicURL:       config.GetString(c, "S3_PUBLIC_URL", ""),
	})
	if err != nil {
		return err
	}

	vendor, err := services.NewElasticEmail(
		config.GetString(c, "ELASTIC_EMAIL_API_KEY", ""),
		config.GetString(c, "ELASTIC_EMAIL_BASE_URL", services.DefaultElasticEmailURL),
		config.GetString(c, "EMAIL_FROM", services.DefaultSender),
	)
	if err != nil {
		return err
	}
	mailer := services.NewMailer(vendor, db.EmailTransactionRepo())

	server, err := api.NewServer(api.Deps{
		Database:    db,
		Auth:        authService,
		Storage:     store,
		Mailer:      mailer,
		Broadcaster: services.NewBroadcaster(mailer, db.RiderRepo()),
	}, c)
	if err != nil {
		return err
	}

	errChannel := make(chan error)
	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

func openDatabase(ctx context.Context, c map[string]string) (*mongo.Client, database.Database, error) {
	uri := config.GetString(c, "MONGODB_URI", "")
	if uri == "" {
		return nil, database.Database{}, errs.NewConfigMissingError("MONGODB_URI")
	}
	client, db, err := database.Connect(ctx, uri, config.GetString(c, "MONGODB_DATABASE", "admin_dashboard"))
	if err != nil {
		return nil, database.Database{}, err
	}
	return client, database.New(db), nil
}

// newAuthService wires the identity provider, the role documents and the
// session store. Without a JWT secret only account creation is possible.
func newAuthService(ctx context.Context, c map[string]string, db database.Database) (*auth.Service, error) {
	provider, err := newProvider(c)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(config.GetInt(c, "SESSION_TTL_MINUTES", 720)) * time.Minute
	sessions, err := newSessionStore(ctx, c, ttl)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokens(config.GetString(c, "JWT_SECRET", ""), ttl)
	if err != nil {
		return nil, err
	}
	return auth.NewService(provider, db.UserRoleRepo(), sessions, tokens), nil
}

func newProvider(c map[string]string) (auth.Provider, error) {
	switch kind := config.GetString(c, "AUTH_PROVIDER", "local"); kind {
	case "local":
		accounts, err := auth.OpenAccounts(
			config.GetString(c, "ACCOUNTS_DB_DSN", ""),
			config.GetString(c, "ACCOUNTS_DB_REPLICA_DSN", ""),
		)
		if err != nil {
			return nil, err
		}
		return auth.NewLocalProvider(accounts), nil
	case "descope":
		provider, err := auth.NewDescopeProvider(
			config.GetString(c, "DESCOPE_PROJECT_ID", ""),
			config.GetString(c, "DESCOPE_MANAGEMENT_KEY", ""),
		)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errs.NewConfigInvalidError("AUTH_PROVIDER", "must be local or descope, got "+kind)
	}
}

func newSessionStore(ctx context.Context, c map[string]string, ttl time.Duration) (session.Store, error) {
	switch kind := config.GetString(c, "SESSION_STORE", "memory"); kind {
	case "memory":
		return session.NewMemoryStore(ttl), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.GetString(c, "REDIS_ADDR", "localhost:6379"),
			Password: config.GetString(c, "REDIS_PASSWORD", ""),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, errs.NewServiceUnavailableError("redis", err)
		}
		return session.NewRedisStore(client, ttl), nil
	default:
		return nil, errs.NewConfigInvalidError("SESSION_STORE", "must be memory or redis, got "+kind)
	}
}

func newCreateUserCommand(getConfig func() map[string]string) *cobra.Command {
	var u auth.NewUser

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a dashboard account and its role",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c := getConfig()

			client, db, err := openDatabase(ctx, c)
			if err != nil {
				return err
			}
			defer database.Disconnect(client)

			provider, err := newProvider(c)
			if err != nil {
				return err
			}
			// no sessions are started here, so no token secret is needed
			service := auth.NewService(provider, db.UserRoleRepo(), session.NewMemoryStore(time.Minute), auth.Tokens{})
			role, err := service.CreateUser(ctx, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s with role %s %s\n", role.ID, role.Main, role.SubRole)
			return nil
		},
	}
	cmd.Flags().StringVar(&u.Email, "email", "", "account email")
	cmd.Flags().StringVar(&u.Password, "password", "", "account password, at least 6 characters")
	cmd.Flags().StringVar(&u.Role, "role", "", "admin, portfolio, vikin or graphyl")
	cmd.Flags().StringVar(&u.SubRole, "sub-role", "", "vikin_admin, vikin_blog, vikin_host or vikin_announcer")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newReconcileCountsCommand(getConfig func() map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-counts",
		Short: "Rebuild every status aggregate from the stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, db, err := openDatabase(ctx, getConfig())
			if err != nil {
				return err
			}
			defer database.Disconnect(client)

			counts, err := db.Recount(ctx)
			if err != nil {
				return err
			}
			for _, sc := range counts {
				log.Info().
					Str("collection", sc.Collection).
					Str("scope", sc.Scope).
					Interface("counts", sc.Counts).
					Msg("aggregate rebuilt")
			}
			log.Info().Int("aggregates", len(counts)).Msg("reconcile finished")
			return nil
		},
	}
}
