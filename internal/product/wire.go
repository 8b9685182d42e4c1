package product

import (
	"database/sql"

	"go.uber.org/zap"

	"stockledger/internal/product/controller"
	"stockledger/internal/product/repository"
	"stockledger/internal/product/service"
	"stockledger/internal/product/usecase"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.Controller {
	repo := repository.NewMySQLRepository(db)
	svc := service.NewService(repo)
	uc := usecase.NewSearchUseCase(svc)
	return controller.NewController(uc, logger)
}
