package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"staffport.io/staffport/core"
	"staffport.io/staffport/infrastructure/communication"
	"staffport.io/staffport/infrastructure/devops"
	"staffport.io/staffport/review"
	"staffport.io/staffport/web/handlers/auth"
	"staffport.io/staffport/web/handlers/documents"
	"staffport.io/staffport/web/handlers/exports"
	"staffport.io/staffport/web/handlers/leave"
	"staffport.io/staffport/web/handlers/messages"
	"staffport.io/staffport/web/handlers/payments"
	"staffport.io/staffport/web/handlers/reports"
	reviewhandler "staffport.io/staffport/web/handlers/review"
	"staffport.io/staffport/web/handlers/staff"
	"staffport.io/staffport/web/handlers/tasks"
	"staffport.io/staffport/web/middlewares"
)

const tokenPurgeInterval = time.Hour

func main() {
	ctx := context.Background()

	cfg, err := devops.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	secret, err := cfg.SigningSecret()
	if err != nil {
		log.Fatal(err)
	}

	dm, err := core.New(cfg.DSN, 10)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Exec(ctx, core.Migrate); err != nil {
		log.Fatal(err)
	}

	notifier := communication.ConnectSlack()
	mailer := communication.NewMailer(cfg.MailFrom)

	reviewSvc := review.NewService(review.Config{
		Secret:  secret,
		BaseURL: cfg.BaseURL,
		MaxTTL:  time.Duration(cfg.ReviewMaxTTLSeconds) * time.Second,
	})

	go purgeExpiredTokens(dm, reviewSvc)

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	public := r.Group("/api/v1")
	auth.Register(public, dm, secret)

	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(secret))
	{
		tasks.Register(protected, dm)
		reports.Register(protected, dm)
		leave.Register(protected, dm)
		payments.Register(protected, dm)
		messages.Register(protected, dm)
		documents.Register(protected, dm, cfg.DocumentBucket)
	}

	admin := r.Group("/api/v1")
	admin.Use(middlewares.Authentication(secret), middlewares.RequireAdmin())
	{
		staff.RegisterAdmin(admin, dm)
		tasks.RegisterAdmin(admin, dm)
		reports.RegisterAdmin(admin, dm)
		leave.RegisterAdmin(admin, dm, mailer)
		payments.RegisterAdmin(admin, dm)
		documents.RegisterAdmin(admin, dm, cfg.DocumentBucket)
		exports.RegisterAdmin(admin, dm)

		endpoint := reviewhandler.RegisterAdmin(admin, dm, reviewSvc, notifier)
		endpoint.RegisterPublic(r, cfg.ClientURL)
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

// purgeExpiredTokens garbage-collects spent and expired review links.
// Redemption re-checks expiry itself, so a missed tick costs nothing.
func purgeExpiredTokens(dm *core.DatabaseManager, svc *review.Service) {
	for {
		time.Sleep(tokenPurgeInterval)

		err := dm.Exec(context.Background(), func(db *gorm.DB) error {
			purged, err := svc.PurgeExpired(db, time.Now())
			if err != nil {
				return err
			}
			if purged > 0 {
				log.Printf("purged %d expired review tokens", purged)
			}
			return nil
		})
		if err != nil {
			log.Printf("review token purge failed: %v", err)
		}
	}
}
