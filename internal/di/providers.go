package di

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"matchchat/internal/chat/handler"
	"matchchat/internal/chat/service"
	"matchchat/internal/config"
	"matchchat/internal/dbmongo"
	"matchchat/internal/realtime"
)

// Application bundles everything a service binary needs after wiring.
type Application struct {
	Config            *config.Config
	DB                *gorm.DB
	Mongo             *dbmongo.MongoClient
	Channel           realtime.Channel
	Service           service.ChatService
	Handler           *handler.ChatHandler
	AttachmentHandler *handler.AttachmentHandler
}

// ProvideMongoClient opens the Mongo connection and hands wire a cleanup
// that closes it on shutdown.
func ProvideMongoClient(cfg *config.Config) (*dbmongo.MongoClient, func(), error) {
	client, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			log.Printf("mongo close: %v", err)
		}
	}
	return client, cleanup, nil
}
