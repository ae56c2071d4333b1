package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"airicepest-be/internal/config"
	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/security"
	"airicepest-be/internal/repository/unitofwork"
	"airicepest-be/internal/service"
	"airicepest-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	reportLegacy := flag.Bool("report-legacy", false, "list accounts that still have no password hash and exit")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)

	if *reportLegacy {
		listLegacyAccounts(ctx, factory)
		return
	}

	color.Cyan("Seeding airicepest database\n")

	color.Yellow("\n1. Super admin account")
	if err := seedAdmin(ctx, factory, cfg.Seed); err != nil {
		color.Red("Failed: %v", err)
	}

	color.Yellow("\n2. Knowledge base")
	knowledge := service.NewKnowledgeService(factory, service.NewNopEventPublisher(), logger.NewNopLogger(), nil)
	for _, req := range sampleKnowledge() {
		req := req
		_, err := knowledge.Create(ctx, &req)
		switch {
		case err == nil:
			color.Green("Created %d %s", req.PestId, req.Name)
		case apperror.Is(err, apperror.KindConflict):
			color.White("Skipped %d %s (exists)", req.PestId, req.Name)
		default:
			color.Red("Failed %d %s: %v", req.PestId, req.Name, err)
		}
	}

	color.Cyan("\nSeeding completed")
}

func seedAdmin(ctx context.Context, factory unitofwork.RepositoryFactory, seed config.SeedConfig) error {
	users := factory.NewUnitOfWork(ctx).UserRepository()

	existing, err := users.FindByUsername(ctx, seed.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		color.White("Account %q already exists, skipping", seed.AdminUsername)
		return nil
	}

	if len(seed.AdminPassword) < security.MinPasswordLength {
		return apperror.Validation("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}
	hash, err := security.HashPassword(seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &entity.User{
		Id:           uuid.New(),
		Username:     seed.AdminUsername,
		Email:        seed.AdminEmail,
		PasswordHash: &hash,
		Role:         entity.UserRoleSuperAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	color.Green("Created super admin %q", admin.Username)
	return nil
}

func listLegacyAccounts(ctx context.Context, factory unitofwork.RepositoryFactory) {
	legacy, err := factory.NewUnitOfWork(ctx).UserRepository().FindWithoutPassword(ctx)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if len(legacy) == 0 {
		color.Green("Every account has a password hash")
		return
	}

	color.Yellow("%d account(s) will set their password on next login:", len(legacy))
	for _, u := range legacy {
		color.White("  %s  %-20s %s", u.Id, u.Username, strings.TrimSpace(u.Email))
	}
}

func sampleKnowledge() []dto.CreateKnowledgeRequest {
	return []dto.CreateKnowledgeRequest{
		{
			PestId:        1,
			Category:      "真菌病害",
			Name:          "稻瘟病",
			Type:          "真菌性病害",
			Aliases:       []string{"稻热病", "火烧瘟"},
			KeyFeatures:   "叶片出现梭形病斑，中央灰白色，边缘褐色",
			AffectedParts: []string{"叶片", "穗颈", "节"},
			Pathogen:      "稻梨孢菌 Magnaporthe oryzae",
			Conditions:    "气温24-28℃，相对湿度90%以上，阴雨连绵",
			Transmission:  "病菌以分生孢子借气流传播",
			Controls: dto.ControlsPayload{
				Agricultural: []string{"选用抗病品种", "合理施用氮肥"},
				Biological:   []string{"喷施春雷霉素"},
				Chemical:     []string{"三环唑", "稻瘟灵"},
			},
		},
		{
			PestId:        2,
			Category:      "真菌病害",
			Name:          "纹枯病",
			Type:          "真菌性病害",
			Aliases:       []string{"花秆", "烂脚瘟"},
			KeyFeatures:   "叶鞘上出现云纹状病斑",
			AffectedParts: []string{"叶鞘", "叶片"},
			Pathogen:      "立枯丝核菌 Rhizoctonia solani",
			Conditions:    "高温高湿，分蘖末期至抽穗期易发",
			Transmission:  "菌核随水流漂浮传播",
			Controls: dto.ControlsPayload{
				Agricultural: []string{"打捞菌核", "浅水勤灌"},
				Biological:   []string{"井冈霉素"},
				Chemical:     []string{"噻呋酰胺", "己唑醇"},
			},
		},
		{
			PestId:        3,
			Category:      "虫害",
			Name:          "稻飞虱",
			Type:          "刺吸式害虫",
			Aliases:       []string{"褐飞虱", "白背飞虱"},
			KeyFeatures:   "成虫和若虫群集稻丛基部刺吸汁液",
			AffectedParts: []string{"茎秆", "叶鞘"},
			LifeCycle:     "一年发生多代，世代重叠",
			Transmission:  "随气流远距离迁飞",
			Controls: dto.ControlsPayload{
				Agricultural: []string{"避免偏施氮肥"},
				Physical:     []string{"灯光诱杀"},
				Biological:   []string{"保护蜘蛛等天敌"},
				Chemical:     []string{"吡蚜酮", "烯啶虫胺"},
			},
		},
		{
			PestId:        4,
			Category:      "虫害",
			Name:          "稻纵卷叶螟",
			Type:          "食叶害虫",
			Aliases:       []string{"刮青虫"},
			KeyFeatures:   "幼虫吐丝将叶片纵卷成筒状，取食叶肉",
			AffectedParts: []string{"叶片"},
			LifeCycle:     "长江流域一年发生4-6代",
			Transmission:  "成虫迁飞",
			Controls: dto.ControlsPayload{
				Physical:   []string{"性诱剂诱捕"},
				Biological: []string{"释放稻螟赤眼蜂", "苏云金杆菌"},
				Chemical:   []string{"氯虫苯甲酰胺"},
			},
		},
	}
}
