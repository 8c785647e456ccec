package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/config"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/models"
)

const usage = `usage: manage <command> [args]

commands:
  promote <email|phone>   grant the admin role to an existing user
  indexes                 create the MongoDB indexes
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	database := client.Database(cfg.Mongo.Database)

	switch flag.Arg(0) {
	case "promote":
		if flag.NArg() != 2 {
			flag.Usage()
			os.Exit(2)
		}
		user, err := promote(ctx, db.NewStore(database).Users, flag.Arg(1))
		if err != nil {
			log.WithError(err).Fatal("Promotion failed")
		}
		log.WithFields(log.Fields{"user_id": user.ID.Hex(), "email": user.Email}).Info("User promoted to admin")

	case "indexes":
		if err := db.EnsureIndexes(ctx, database); err != nil {
			log.WithError(err).Fatal("Failed to create indexes")
		}
		log.Info("Indexes ensured")

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// promote looks the user up by email or phone and grants the admin role.
// Promoting an admin again is a no-op.
func promote(ctx context.Context, users db.UserCollection, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, errors.New("identifier is required")
	}

	user, err := users.FindUserByEmailOrPhone(ctx, strings.ToLower(identifier), identifier)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("no user with email or phone %q", identifier)
		}
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return user, nil
	}

	if err := users.UpdateUserRole(ctx, user.ID.Hex(), models.RoleAdmin); err != nil {
		return nil, err
	}
	user.Role = models.RoleAdmin
	return user, nil
}
