package wire

import (
	"Atrium/internal/api"
	"Atrium/internal/api/config"
	"Atrium/internal/api/handler"
	"Atrium/internal/job"
	"Atrium/internal/pkg/cron"
	"Atrium/internal/pkg/es"
	"Atrium/internal/pkg/kafka"
	"Atrium/internal/pkg/mongo"
	"Atrium/internal/pkg/util"
	"Atrium/internal/repository"
	"Atrium/internal/service"

	"github.com/gin-gonic/gin"
	driver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	Producer     kafka.EventProducer
}

func BuildApplication(db *gorm.DB, mongoDB *driver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	employeeRepo := repository.NewEmployeeRepo(db)
	articleRepo := repository.NewArticleRepo(db)
	mediaRepo := repository.NewMediaRepo(db)
	engagementRepo := repository.NewEngagementRepo(db)
	statRepo := repository.NewContentStatRepo(db)

	chatRepo := mongo.NewChatMessageRepo(mongoDB)
	inboxRepo := mongo.NewInboxRepo(mongoDB)
	contentRepo := es.NewContentRepo(es.Client)

	mailClient := util.NewMailClient()

	producer, err := kafka.NewEventProducer(cfg)
	if err != nil {
		return nil, err
	}

	statsService := service.NewStatsService(statRepo, engagementRepo)
	userService := service.NewUserService(userRepo, contentRepo, producer, mailClient)
	authService := service.NewAuthService(userRepo, userService, mailClient)
	employeeService := service.NewEmployeeService(employeeRepo)
	articleService := service.NewArticleService(articleRepo, statRepo, contentRepo, statsService)
	mediaService := service.NewMediaService(mediaRepo, statRepo, contentRepo, statsService)
	engagementService := service.NewEngagementService(engagementRepo, articleRepo, mediaRepo, userRepo, statsService, producer)
	feedService := service.NewFeedService(articleRepo, mediaRepo, statRepo, engagementRepo)
	searchService := service.NewSearchService(contentRepo)
	chatService := service.NewChatService(chatRepo, userRepo)
	notificationService := service.NewNotificationService(inboxRepo)
	presenceService := service.NewPresenceService(userRepo)

	handlers := &api.HandlersGroup{
		AuthHandler:         handler.NewAuthHandler(authService),
		UserHandler:         handler.NewUserHandler(userService),
		AdminHandler:        handler.NewAdminHandler(userService),
		EmployeeHandler:     handler.NewEmployeeHandler(employeeService),
		ArticleHandler:      handler.NewArticleHandler(articleService),
		MediaHandler:        handler.NewMediaHandler(mediaService),
		FeedHandler:         handler.NewFeedHandler(feedService),
		EngagementHandler:   handler.NewEngagementHandler(engagementService, statsService),
		SearchHandler:       handler.NewSearchHandler(searchService),
		ChatHandler:         handler.NewChatHandler(chatService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		PresenceHandler:     handler.NewPresenceHandler(presenceService),
		WsHandler:           handler.NewWsHandler(chatService, presenceService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, inboxRepo, userRepo, mailClient)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(job.NewStatsCleanupJob(statRepo))

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		Producer:     producer,
	}, nil
}
