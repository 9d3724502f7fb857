// create-admin 创建首个管理员账号，或将已有账号提升为管理员
//
//	go run ./cmd/create-admin --email admin@example.com --cpf 12345678909 --name "Admin" --password ...
//
// 密码也可通过环境变量 VOTAAI_ADMIN_PASSWORD 传入
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VotaAI/Backend-API/config"
	"github.com/VotaAI/Backend-API/internal/dto"
	"github.com/VotaAI/Backend-API/internal/model"
	"github.com/VotaAI/Backend-API/internal/repository"
	"github.com/VotaAI/Backend-API/internal/service"
	"github.com/VotaAI/Backend-API/pkg/database"
	"github.com/VotaAI/Backend-API/pkg/hash"
	"github.com/VotaAI/Backend-API/pkg/jwt"
	applogger "github.com/VotaAI/Backend-API/pkg/logger"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "配置文件路径")
	name := pflag.String("name", "Administrador", "管理员姓名")
	cpf := pflag.String("cpf", "", "管理员 CPF（11 位数字，可带标点）")
	email := pflag.String("email", "", "管理员邮箱")
	password := pflag.String("password", os.Getenv("VOTAAI_ADMIN_PASSWORD"), "管理员密码（至少 8 位）")
	pflag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "--email 不能为空")
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	hasher, err := hash.New(cfg.Auth.PasswordHasher)
	if err != nil {
		logger.Fatal("初始化密码哈希失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewRepository(db)
	authSvc := service.NewAuthService(repo, jwt.NewManager(&cfg.Auth), hasher, nil, logger)

	userID, err := ensureUser(ctx, repo, authSvc, *name, *cpf, *email, *password)
	if err != nil {
		logger.Fatal("创建管理员失败", zap.Error(err))
	}

	user, err := repo.User.GetByID(ctx, userID)
	if err != nil {
		logger.Fatal("查询用户失败", zap.Error(err))
	}
	if user.Role != model.RoleAdmin {
		user.Role = model.RoleAdmin
		if err := repo.User.Update(ctx, user); err != nil {
			logger.Fatal("提升管理员失败", zap.Error(err))
		}
	}

	logger.Info("管理员已就绪", zap.String("user_id", user.UserID), zap.String("email", user.Email))
}

// ensureUser 邮箱已注册时复用该账号，否则走正常注册流程
func ensureUser(ctx context.Context, repo *repository.Repository, authSvc service.AuthService, name, cpf, email, password string) (string, error) {
	existing, err := repo.User.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return existing.UserID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	if len(password) < 8 {
		return "", errors.New("密码至少 8 位")
	}
	resp, err := authSvc.Register(ctx, &dto.RegisterRequest{
		FullName: name,
		CPF:      cpf,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}
