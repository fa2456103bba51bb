package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shiftstay/internal/app/commands"
	availabilityapp "shiftstay/internal/app/handlers/availability"
	bookingapp "shiftstay/internal/app/handlers/booking"
	listingapp "shiftstay/internal/app/handlers/listings"
	matchapp "shiftstay/internal/app/handlers/matching"
	meapp "shiftstay/internal/app/handlers/me"
	reviewsapp "shiftstay/internal/app/handlers/reviews"
	"shiftstay/internal/app/middleware"
	appoutbox "shiftstay/internal/app/outbox"
	"shiftstay/internal/app/policies"
	"shiftstay/internal/app/queries"
	authsvc "shiftstay/internal/app/services/auth"
	"shiftstay/internal/app/uow"
	domainuser "shiftstay/internal/domain/user"
	"shiftstay/internal/infra/broker/kafka"
	"shiftstay/internal/infra/config"
	mongodb "shiftstay/internal/infra/db/mongo"
	"shiftstay/internal/infra/geocode"
	ginserver "shiftstay/internal/infra/http/gin"
	"shiftstay/internal/infra/obs"
	infraoutbox "shiftstay/internal/infra/outbox"
	"shiftstay/internal/infra/security"
	"shiftstay/internal/infra/storage/memory"
	"shiftstay/internal/infra/storage/s3"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	if app.consumer != nil {
		go func() {
			defer app.consumer.Close()
			if err := app.consumer.Run(ctx, app.notifyTopics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("notification consumer stopped", "error", err)
			}
		}()
	}

	if cfg.SeedDemoData && cfg.StorageMode == "memory" {
		if err := app.seedDemoData(ctx, logger); err != nil {
			logger.Warn("demo data seed failed", "error", err)
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	worker       *infraoutbox.Worker
	consumer     *kafka.Consumer
	notifyTopics []string
	ready        func() error
	commands     commands.Bus
	auth         *authsvc.Service
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		factory      uow.UoWFactory
		outboxDest   appoutbox.Outbox
		idemStore    middleware.IdempotencyStore
		users        domainuser.Repository
		worker       *infraoutbox.Worker
		consumer     *kafka.Consumer
		notifyTopics []string
		ready        = func() error { return nil }
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		mongoFactory := mongodb.NewFactory(client.DB)
		factory = mongoFactory
		users = mongoFactory.UsersRepo

		store := infraoutbox.NewStore(client.DB)
		outboxDest = store
		idemStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}

		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, err
		}
		worker = &infraoutbox.Worker{
			Store:       store,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}

		if cfg.KafkaNotifyGroup != "" {
			consumer, err = kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaNotifyGroup, nil,
				&kafka.NotificationListener{Logger: logger})
			if err != nil {
				return application{}, err
			}
			notifyTopics = []string{
				cfg.KafkaTopicPrefix + "booking.events.v1",
				cfg.KafkaTopicPrefix + "listing.events.v1",
				cfg.KafkaTopicPrefix + "review.events.v1",
			}
		}
	default:
		memFactory := memory.Factory{
			ListingsRepo:     memory.NewListingRepository(),
			AvailabilityRepo: memory.NewAvailabilityRepository(),
			BookingRepo:      memory.NewBookingRepository(),
			ReviewsRepo:      memory.NewReviewsRepository(),
			UsersRepo:        memory.NewUserRepository(),
		}
		factory = memFactory
		users = memFactory.UsersRepo
		outboxDest = memory.NewOutbox()
		idemStore = memory.NewIdempotencyStore()
	}

	sessions := memory.NewSessionStore()
	authService := &authsvc.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	photoStorage := buildPhotoStorage(cfg, logger)
	geocoder := &geocode.Client{
		HTTP:     &http.Client{Timeout: cfg.GeocodeTimeout},
		Endpoint: cfg.GeocodeURL,
		Logger:   logger,
	}

	encoder := appoutbox.JSONEventEncoder{}
	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	registerCommandHandlers(commandBus, factory, outboxDest, encoder, photoStorage)
	registerQueryHandlers(queryBus, factory)

	commandChain := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idemStore, nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(outboxDest),
	)
	queryChain := middleware.ChainQueries(queryBus)

	handlers := ginserver.Handlers{
		Listing:      ginserver.ListingHandler{Queries: queryChain},
		Match:        ginserver.MatchHandler{Queries: queryChain},
		Availability: ginserver.AvailabilityHandler{Queries: queryChain},
		Booking:      ginserver.BookingHandler{Commands: commandChain, Logger: logger},
		HostListing:  ginserver.HostListingHandler{Commands: commandChain, Queries: queryChain, Logger: logger},
		Reviews:      ginserver.ReviewsHandler{Commands: commandChain, Queries: queryChain, Logger: logger},
		Me:           ginserver.MeHandler{Queries: queryChain, Logger: logger},
		Geocode:      ginserver.GeocodeHandler{Geocoder: geocoder},
		Auth:         &ginserver.AuthHandler{Service: authService, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: authService,
			Logger:  logger,
		}.Handle,
	}

	return application{
		handlers:     handlers,
		worker:       worker,
		consumer:     consumer,
		notifyTopics: notifyTopics,
		ready:        ready,
		commands:     commandChain,
		auth:         authService,
	}, nil
}

func registerCommandHandlers(bus *commands.InMemoryBus, factory uow.UoWFactory, box appoutbox.Outbox, encoder appoutbox.EventEncoder, photos policies.PhotoStorage) {
	commands.RegisterHandler(bus, bookingapp.RequestBookingCommand{}.Key(),
		&bookingapp.RequestBookingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, bookingapp.AcceptBookingCommand{}.Key(),
		&bookingapp.AcceptBookingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, bookingapp.DeclineBookingCommand{}.Key(),
		&bookingapp.DeclineBookingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, bookingapp.CancelBookingCommand{}.Key(),
		&bookingapp.CancelBookingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})

	commands.RegisterHandler(bus, listingapp.CreateListingCommand{}.Key(),
		&listingapp.CreateListingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, listingapp.UpdateListingCommand{}.Key(),
		&listingapp.UpdateListingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, listingapp.PublishListingCommand{}.Key(),
		&listingapp.PublishListingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, listingapp.SuspendListingCommand{}.Key(),
		&listingapp.SuspendListingHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, listingapp.AttachPhotoCommand{}.Key(),
		&listingapp.AttachPhotoHandler{UoWFactory: factory, Storage: photos, Outbox: box, Encoder: encoder})

	commands.RegisterHandler(bus, availabilityapp.BlockDatesCommand{}.Key(),
		&availabilityapp.BlockDatesHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, availabilityapp.UnblockDatesCommand{}.Key(),
		&availabilityapp.UnblockDatesHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})

	commands.RegisterHandler(bus, reviewsapp.SubmitReviewCommand{}.Key(),
		&reviewsapp.SubmitReviewHandler{UoWFactory: factory, Outbox: box, Encoder: encoder})
	commands.RegisterHandler(bus, reviewsapp.UpdateReviewCommand{}.Key(),
		&reviewsapp.UpdateReviewHandler{UoWFactory: factory})
}

func registerQueryHandlers(bus *queries.InMemoryBus, factory uow.UoWFactory) {
	queries.RegisterHandler(bus, listingapp.SearchCatalogQuery{}.Key(),
		&listingapp.SearchCatalogHandler{UoWFactory: factory})
	queries.RegisterHandler(bus, listingapp.GetDetailQuery{}.Key(),
		&listingapp.GetDetailHandler{UoWFactory: factory})
	queries.RegisterHandler(bus, listingapp.HostListingsQuery{}.Key(),
		&listingapp.HostListingsHandler{UoWFactory: factory})

	queries.RegisterHandler(bus, matchapp.SearchMatchesQuery{}.Key(),
		&matchapp.SearchMatchesHandler{UoWFactory: factory})

	queries.RegisterHandler(bus, availabilityapp.GetCalendarQuery{}.Key(),
		&availabilityapp.GetCalendarHandler{UoWFactory: factory})
	queries.RegisterHandler(bus, availabilityapp.MonthGridQuery{}.Key(),
		&availabilityapp.MonthGridHandler{UoWFactory: factory, Now: func() time.Time { return time.Now().UTC() }})

	queries.RegisterHandler(bus, meapp.NurseBookingsQuery{}.Key(),
		&meapp.NurseBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(bus, bookingapp.HostBookingsQuery{}.Key(),
		&bookingapp.HostBookingsHandler{UoWFactory: factory})

	queries.RegisterHandler(bus, reviewsapp.ListReviewsQuery{}.Key(),
		&reviewsapp.ListReviewsHandler{UoWFactory: factory})
}

func buildPhotoStorage(cfg config.Config, logger *slog.Logger) policies.PhotoStorage {
	if cfg.S3Endpoint == "" {
		return s3.NoopUploader{}
	}
	client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("photo storage unavailable", "error", err)
		return s3.NoopUploader{}
	}
	return client
}
