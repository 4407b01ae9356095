//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"matchchat/internal/chat/handler"
	"matchchat/internal/chat/repository"
	"matchchat/internal/chat/service"
	"matchchat/internal/config"
	"matchchat/internal/dbmongo"
	"matchchat/internal/dbmysql"
	"matchchat/internal/realtime"
)

// Declaration only; wire generates the real body in wire_gen.go.
func InitializeApplication() (*Application, func(), error) {
	wire.Build(
		config.LoadConfig,
		dbmysql.NewMySQL,
		ProvideMongoClient,
		dbmongo.NewAttachmentStorage,
		realtime.NewChannel,
		repository.NewMessageRepository,
		service.NewChatService,
		handler.NewChatHandler,
		handler.NewAttachmentHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil, nil
}
