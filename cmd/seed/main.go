package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"vidtube/internal/auth"
	"vidtube/internal/config"
	"vidtube/internal/db"
	"vidtube/internal/logger"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

type seedUser struct {
	Username string
	Email    string
	FullName string
	Password string
	// Channels this user subscribes to, by username.
	Subscriptions []string
}

var seedUsers = []seedUser{
	{Username: "alice", Email: "alice@example.com", FullName: "Alice Anders", Password: "password123", Subscriptions: []string{"bob", "carol"}},
	{Username: "bob", Email: "bob@example.com", FullName: "Bob Brand", Password: "password123", Subscriptions: []string{"alice"}},
	{Username: "carol", Email: "carol@example.com", FullName: "Carol Chen", Password: "password123", Subscriptions: []string{"alice", "bob"}},
}

func main() {
	_ = godotenv.Load()

	log := logger.New("seed")
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Subscription{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	users := repository.NewUserRepository(gormDB)
	subs := repository.NewSubscriptionRepository(gormDB)
	ctx := context.Background()

	ids := make(map[string]uint, len(seedUsers))
	created := 0
	for _, su := range seedUsers {
		existing, err := users.FindByUsernameOrEmail(ctx, su.Username, su.Email)
		if err == nil {
			ids[su.Username] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatal().Err(err).Str("username", su.Username).Msg("lookup user")
		}

		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("hash password")
		}
		user := &model.User{
			Username:     su.Username,
			Email:        su.Email,
			FullName:     su.FullName,
			PasswordHash: hash,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatal().Err(err).Str("username", su.Username).Msg("create user")
		}
		ids[su.Username] = user.ID
		created++
	}

	subscribed := 0
	for _, su := range seedUsers {
		for _, channel := range su.Subscriptions {
			if err := subs.Subscribe(ctx, ids[su.Username], ids[channel]); err != nil {
				log.Fatal().Err(err).Str("subscriber", su.Username).Str("channel", channel).Msg("subscribe")
			}
			subscribed++
		}
	}

	log.Info().Int("usersCreated", created).Int("subscriptions", subscribed).Msg("seed completed")
}
