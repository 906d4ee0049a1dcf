package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"minesweeper/internal/config"
	"minesweeper/internal/db"
	"minesweeper/internal/repository"
	"minesweeper/internal/service"
)

// Creates (or logs in) a player and prints a token for manual testing.
func main() {
	name := flag.String("name", "tester", "player name")
	password := flag.String("password", "tester123", "player password")
	flag.Parse()

	cfg := config.Load()
	service.InitJWT(cfg.JWTSecret)

	store := db.OpenStore(cfg)
	defer store.Close()

	players := service.NewPlayerService(store)
	ctx := context.Background()

	p, err := players.Register(ctx, *name, *password)
	switch {
	case err == nil:
		log.Printf("player created id=%d\n", p.ID)
	case errors.Is(err, repository.ErrNameTaken):
		p, err = players.Login(ctx, *name, *password)
		if err != nil {
			log.Fatalf("player exists, login failed: %v", err)
		}
		log.Printf("player already exists id=%d\n", p.ID)
	default:
		log.Fatalf("create player failed: %v", err)
	}

	token, err := service.GenerateJWT(p.ID, p.Name)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
